package main

import (
	"fmt"
	"os"
	"strings"

	"clambake/internal/config"
	"clambake/internal/identity"
	"clambake/pkg/presence"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// newInstanceID mints a short random instance id: the first 12 hex
// characters of a v4 UUID. Short enough to type, long enough that
// concurrent sessions never collide in practice.
func newInstanceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// newRegisterCmd creates the "clambake register" subcommand.
func newRegisterCmd(cfg *config.Config) *cobra.Command {
	var project, dir, model string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register this session as an active instance",
		Long:  "Mints an instance id, announces presence in the shared database, and\nsaves the identity locally so later commands act as this instance.\nAlso reports other active instances and any unread messages.",
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			instanceID := newInstanceID()
			workingDir := dir
			if workingDir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("register: resolve working dir: %w", err)
				}
				workingDir = wd
			}

			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			defer st.Close()

			ctx := cmd.Context()
			if err := st.presence.Register(ctx, presence.RegisterParams{
				ID:         instanceID,
				Project:    project,
				WorkingDir: workingDir,
				Model:      model,
			}); err != nil {
				return fmt.Errorf("register: %w", err)
			}

			if err := identity.Save(cfg.InstanceFile, identity.Identity{
				InstanceID: instanceID,
				Project:    project,
			}); err != nil {
				return fmt.Errorf("register: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "REGISTERED: %s on project '%s'\n", instanceID, project)

			others, err := st.presence.Active(ctx, instanceID)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			if len(others) > 0 {
				fmt.Fprintln(out, "\nACTIVE INSTANCES:")
				for _, o := range others {
					task := o.CurrentTask
					if task == "" {
						task = "idle"
					}
					fmt.Fprintf(out, "  [%s] %s - %s (%s)\n", o.Status, o.Project, task, o.ID)
				}
			}

			unread, err := st.messages.UnreadCount(ctx, instanceID, project)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			if unread > 0 {
				fmt.Fprintf(out, "\n%d UNREAD MESSAGE(S) - run 'clambake inbox'\n", unread)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&project, "project", "", "project this session works on (required)")
	cmd.Flags().StringVar(&dir, "dir", "", "working directory (default: current directory)")
	cmd.Flags().StringVar(&model, "model", "opus", "model running this session")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
