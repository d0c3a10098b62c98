package main

import (
	"fmt"

	"clambake/internal/config"
	"clambake/pkg/presence"
	"clambake/pkg/protocol"

	"github.com/spf13/cobra"
)

// newHeartbeatCmd creates the "clambake heartbeat" subcommand.
func newHeartbeatCmd(cfg *config.Config) *cobra.Command {
	var task, status string

	cmd := &cobra.Command{
		Use:   "heartbeat",
		Short: "Refresh this instance's heartbeat",
		Long:  "Stamps the presence row with the current time. Optionally updates the\ncurrent task label and status in the same write.",
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			id, err := requireIdentity(cfg)
			if err != nil {
				return fmt.Errorf("heartbeat: %w", err)
			}

			var upd presence.HeartbeatUpdate
			if cmd.Flags().Changed("task") {
				upd.Task = &task
			}
			if cmd.Flags().Changed("status") {
				if !protocol.InstanceStatus(status).Valid() {
					return fmt.Errorf("heartbeat: unknown status %q", status)
				}
				upd.Status = &status
			}

			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("heartbeat: %w", err)
			}
			defer st.Close()

			if err := st.presence.Heartbeat(cmd.Context(), id.InstanceID, upd); err != nil {
				return fmt.Errorf("heartbeat: %w", err)
			}

			taskMsg := ""
			if task != "" {
				taskMsg = fmt.Sprintf(" task='%s'", task)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "HEARTBEAT: %s%s\n", id.InstanceID, taskMsg)
			return nil
		}),
	}

	cmd.Flags().StringVar(&task, "task", "", "what this instance is working on")
	cmd.Flags().StringVar(&status, "status", "", "instance status (active, idle, busy, shutting_down)")

	return cmd
}
