package main

import (
	"errors"
	"fmt"
	"strconv"

	"clambake/internal/config"
	"clambake/pkg/memory"
	"clambake/pkg/protocol"

	"github.com/spf13/cobra"
)

// newUpdateMemoryCmd creates the "clambake update-memory" subcommand.
// Entries are never hard-deleted; transitioning status to resolved,
// deprecated, or superseded is the deletion-equivalent.
func newUpdateMemoryCmd(cfg *config.Config) *cobra.Command {
	var title, content, status string
	var global bool

	cmd := &cobra.Command{
		Use:   "update-memory <memory-id>",
		Short: "Update an existing memory entry",
		Args:  cobra.ExactArgs(1),
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			memID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("update-memory: invalid memory id %q", args[0])
			}

			var upd memory.Update
			if cmd.Flags().Changed("title") {
				upd.Title = &title
			}
			if cmd.Flags().Changed("content") {
				upd.Content = &content
			}
			if cmd.Flags().Changed("status") {
				if !protocol.MemoryStatus(status).Valid() {
					return fmt.Errorf("update-memory: unknown status %q", status)
				}
				upd.Status = &status
			}
			if upd.Title == nil && upd.Content == nil && upd.Status == nil {
				return errors.New("update-memory: nothing to update, pass --title, --content, or --status")
			}

			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("update-memory: %w", err)
			}
			defer st.Close()

			if err := st.memories.UpdateEntry(cmd.Context(), memID, global, upd); err != nil {
				return fmt.Errorf("update-memory: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "UPDATED: memory #%d\n", memID)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&global, "global", false, "update a global memory entry")
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&content, "content", "", "new content")
	cmd.Flags().StringVar(&status, "status", "", "new status (active, resolved, deprecated, superseded)")

	return cmd
}
