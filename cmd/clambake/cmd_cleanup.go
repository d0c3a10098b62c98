package main

import (
	"fmt"

	"clambake/internal/config"

	"github.com/spf13/cobra"
)

// newCleanupCmd creates the "clambake cleanup" subcommand.
func newCleanupCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove stale instances and expired messages",
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("cleanup: %w", err)
			}
			defer st.Close()

			ctx := cmd.Context()
			staleInstances, err := st.presence.DeleteStale(ctx)
			if err != nil {
				return fmt.Errorf("cleanup: %w", err)
			}
			expiredMessages, err := st.messages.DeleteExpired(ctx)
			if err != nil {
				return fmt.Errorf("cleanup: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "CLEANUP: %d stale instance(s), %d expired message(s)\n",
				staleInstances, expiredMessages)
			return nil
		}),
	}
}
