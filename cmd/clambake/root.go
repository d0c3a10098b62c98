package main

import (
	"fmt"

	"clambake/internal/config"
	"clambake/internal/version"

	"github.com/spf13/cobra"
)

// newRootCmd creates the root clambake command with all subcommands attached.
func newRootCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "clambake",
		Short:         "Multi-instance agent coordination",
		Long:          "clambake lets concurrent agent sessions coordinate through a shared\nSQLite database: presence, messaging, persistent memory, and an atomic\ntask queue.",
		Version:       fmt.Sprintf("clambake %s", version.String()),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddCommand(
		newInitCmd(cfg),
		newEnableCmd(cfg),
		newDisableCmd(cfg),
		newRegisterCmd(cfg),
		newHeartbeatCmd(cfg),
		newStatusCmd(cfg),
		newSendCmd(cfg),
		newInboxCmd(cfg),
		newReadCmd(cfg),
		newRememberCmd(cfg),
		newRecallCmd(cfg),
		newUpdateMemoryCmd(cfg),
		newLogCmd(cfg),
		newTaskCmd(cfg),
		newRoleCmd(cfg),
		newDeregisterCmd(cfg),
		newCleanupCmd(cfg),
		newDashCmd(),
	)

	return cmd
}

// gated wraps a RunE so it becomes a silent no-op while coordination is
// disabled. Agents embed clambake calls in their instructions unconditionally;
// the gate lets a human switch the whole mechanism off without those calls
// producing errors or output.
func gated(cfg *config.Config, run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if !cfg.Enabled {
			return nil
		}
		return run(cmd, args)
	}
}
