package main

import (
	"fmt"
	"strconv"

	"clambake/internal/config"

	"github.com/spf13/cobra"
)

// newReadCmd creates the "clambake read" subcommand.
func newReadCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "read <message-id>",
		Short: "Mark a message read and print its full content",
		Args:  cobra.ExactArgs(1),
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			msgID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("read: invalid message id %q", args[0])
			}

			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("read: %w", err)
			}
			defer st.Close()

			m, err := st.messages.Read(cmd.Context(), msgID)
			if err != nil {
				return fmt.Errorf("read: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "MESSAGE #%d\n", m.ID)
			fmt.Fprintf(out, "  From: %s (%s)\n", orUnknown(m.FromProject), m.FromInstance)
			fmt.Fprintf(out, "  To: %s\n", m.ToTarget)
			fmt.Fprintf(out, "  Type: %s\n", m.Type)
			fmt.Fprintf(out, "  Subject: %s\n", m.Subject)
			fmt.Fprintf(out, "  Date: %s\n", m.CreatedAt)
			if m.Body != "" {
				fmt.Fprintf(out, "  Body:\n%s\n", m.Body)
			}
			return nil
		}),
	}
}
