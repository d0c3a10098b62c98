package main

import (
	"fmt"

	"clambake/internal/config"

	"github.com/spf13/cobra"
)

// newInitCmd creates the "clambake init" subcommand. Init runs regardless of
// the enable gate so the database can be prepared before switching on.
func newInitCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the coordination database",
		Long:  "Creates the SQLite database and all coordination tables.\nSafe to run repeatedly; existing data is preserved.",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			defer st.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "OK: clambake schema initialized in database '%s'\n", cfg.DBPath)
			return nil
		},
	}
}
