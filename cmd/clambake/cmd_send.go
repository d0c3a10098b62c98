package main

import (
	"fmt"
	"time"

	"clambake/internal/config"
	"clambake/pkg/messaging"
	"clambake/pkg/protocol"

	"github.com/spf13/cobra"
)

// newSendCmd creates the "clambake send" subcommand.
func newSendCmd(cfg *config.Config) *cobra.Command {
	var to, subject, body, msgType string
	var expiresIn time.Duration

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message to an instance, a project, or @all",
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			id, err := requireIdentity(cfg)
			if err != nil {
				return fmt.Errorf("send: %w", err)
			}
			if !protocol.MessageType(msgType).Valid() {
				return fmt.Errorf("send: unknown message type %q", msgType)
			}

			var expiresAt string
			if expiresIn > 0 {
				expiresAt = time.Now().UTC().Add(expiresIn).Format("2006-01-02 15:04:05")
			}

			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("send: %w", err)
			}
			defer st.Close()

			msgID, err := st.messages.Send(cmd.Context(), messaging.SendParams{
				FromInstance: id.InstanceID,
				FromProject:  id.Project,
				To:           to,
				Type:         msgType,
				Subject:      subject,
				Body:         body,
				ExpiresAt:    expiresAt,
			})
			if err != nil {
				return fmt.Errorf("send: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "SENT: [%s] #%d to %s - %s\n", msgType, msgID, to, subject)
			return nil
		}),
	}

	cmd.Flags().StringVar(&to, "to", "", "instance id, project name, or @all (required)")
	cmd.Flags().StringVar(&subject, "subject", "", "one-line subject (required)")
	cmd.Flags().StringVar(&body, "body", "", "message body")
	cmd.Flags().StringVar(&msgType, "type", "info", "message type (info, warning, blocker, request, done)")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "drop the message after this duration (e.g. 24h)")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
