package main

import (
	"fmt"

	"clambake/internal/config"

	"github.com/spf13/cobra"
)

// newInboxCmd creates the "clambake inbox" subcommand.
func newInboxCmd(cfg *config.Config) *cobra.Command {
	var includeRead bool

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "List messages addressed to this instance",
		Long:  "Shows unread messages targeted at this instance, its project, or @all.\nExpired messages are excluded. Use --all to include already-read mail.",
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			id, err := requireIdentity(cfg)
			if err != nil {
				return fmt.Errorf("inbox: %w", err)
			}

			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("inbox: %w", err)
			}
			defer st.Close()

			messages, err := st.messages.Inbox(cmd.Context(), id.InstanceID, id.Project, includeRead)
			if err != nil {
				return fmt.Errorf("inbox: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(messages) == 0 {
				fmt.Fprintln(out, "INBOX: empty")
				return nil
			}

			fmt.Fprintf(out, "INBOX: %d message(s)\n", len(messages))
			for _, m := range messages {
				fmt.Fprintf(out, "  %s#%d [%s] %s from %s (%s) - %s\n",
					readMark(m.Read), m.ID, m.Type, shortTimestamp(m.CreatedAt),
					orUnknown(m.FromProject), shortID(m.FromInstance), m.Subject)
				if m.Body != "" {
					fmt.Fprintf(out, "    %s\n", truncate(m.Body, 200))
				}
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&includeRead, "all", false, "include read messages")

	return cmd
}
