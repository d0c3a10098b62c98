package main

import (
	"fmt"
	"strings"

	"clambake/internal/config"
	"clambake/pkg/protocol"
	"clambake/pkg/sessionlog"

	"github.com/spf13/cobra"
)

// newLogCmd creates the "clambake log" subcommand.
func newLogCmd(cfg *config.Config) *cobra.Command {
	var action, summary, files string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record a session action in the audit trail",
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			id, err := requireIdentity(cfg)
			if err != nil {
				return fmt.Errorf("log: %w", err)
			}
			if !protocol.ValidSessionAction(action) {
				return fmt.Errorf("log: unknown action %q (one of: %s)",
					action, strings.Join(protocol.SessionActions, ", "))
			}

			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("log: %w", err)
			}
			defer st.Close()

			if err := st.sessions.Append(cmd.Context(), sessionlog.AppendParams{
				InstanceID:    id.InstanceID,
				Project:       id.Project,
				Action:        action,
				Summary:       summary,
				FilesModified: splitList(files),
			}); err != nil {
				return fmt.Errorf("log: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "LOGGED: [%s] %s\n", action, summary)
			return nil
		}),
	}

	cmd.Flags().StringVar(&action, "action", "", "action kind (required)")
	cmd.Flags().StringVar(&summary, "summary", "", "one-line summary (required)")
	cmd.Flags().StringVar(&files, "files", "", "comma-separated modified files")
	_ = cmd.MarkFlagRequired("action")
	_ = cmd.MarkFlagRequired("summary")

	return cmd
}
