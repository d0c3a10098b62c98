package main

import (
	"errors"
	"fmt"

	"clambake/internal/config"
	"clambake/internal/identity"
	"clambake/pkg/sessionlog"

	"github.com/spf13/cobra"
)

// newDeregisterCmd creates the "clambake deregister" subcommand.
func newDeregisterCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "deregister",
		Short: "Withdraw this instance from the swarm",
		Long:  "Logs a shutdown entry, removes the presence row, and clears the local\nidentity. Running it while unregistered is a harmless no-op.",
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			id, err := identity.Load(cfg.InstanceFile)
			if errors.Is(err, identity.ErrNotRegistered) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not registered.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("deregister: %w", err)
			}

			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("deregister: %w", err)
			}
			defer st.Close()

			ctx := cmd.Context()
			if err := st.sessions.Append(ctx, sessionlog.AppendParams{
				InstanceID: id.InstanceID,
				Project:    id.Project,
				Action:     "shutdown",
				Summary:    "Session ended",
			}); err != nil {
				return fmt.Errorf("deregister: %w", err)
			}
			if err := st.presence.Deregister(ctx, id.InstanceID); err != nil {
				return fmt.Errorf("deregister: %w", err)
			}
			if err := identity.Clear(cfg.InstanceFile); err != nil {
				return fmt.Errorf("deregister: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "DEREGISTERED: %s\n", id.InstanceID)
			return nil
		}),
	}
}
