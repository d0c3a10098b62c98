package main

import (
	"context"
	"fmt"

	"clambake/internal/config"
	"clambake/internal/identity"

	"github.com/spf13/cobra"
)

// newEnableCmd creates the "clambake enable" subcommand (alias "on").
// Enable and disable always run regardless of the gate; otherwise a
// disabled clambake could never be switched back on.
func newEnableCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "enable",
		Aliases: []string{"on"},
		Short:   "Enable coordination (persists via flag file)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.WriteFlag(true); err != nil {
				return fmt.Errorf("enable: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "ENABLED: clambake is now active")
			fmt.Fprintf(out, "  Flag file: %s\n", cfg.FlagFile)
			fmt.Fprintln(out, "  Or set env: export CLAMBAKE_ENABLED=1")
			return nil
		},
	}
}

// newDisableCmd creates the "clambake disable" subcommand (alias "off").
// Besides flipping the flag file it withdraws this session from the swarm:
// the presence row is removed (best effort) and the identity file cleared.
func newDisableCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "disable",
		Aliases: []string{"off"},
		Short:   "Disable coordination (all commands become no-ops)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.WriteFlag(false); err != nil {
				return fmt.Errorf("disable: %w", err)
			}

			// Withdraw the registration, ignoring db trouble: disable
			// must succeed even when the database is unreachable.
			if id := optionalIdentity(cfg); id != nil {
				if st, err := openStores(cfg); err == nil {
					_ = st.presence.Deregister(context.Background(), id.InstanceID)
					_ = st.Close()
				}
				_ = identity.Clear(cfg.InstanceFile)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "DISABLED: clambake is now inactive")
			fmt.Fprintln(out, "  All commands will silently no-op until re-enabled")
			fmt.Fprintln(out, "  Re-enable with: clambake enable")
			return nil
		},
	}
}
