package main

import (
	"errors"
	"fmt"

	"clambake/internal/config"
	"clambake/pkg/memory"

	"github.com/spf13/cobra"
)

// newRememberCmd creates the "clambake remember" subcommand.
func newRememberCmd(cfg *config.Config) *cobra.Command {
	var project, memType, title, content, tags, files string
	var global bool

	cmd := &cobra.Command{
		Use:   "remember",
		Short: "Store knowledge in project or global memory",
		Long:  "Writes an entry to the shared memory store. Project memory holds\nproject-specific findings; --global stores cross-project knowledge.",
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			if !global && project == "" {
				return errors.New("remember: --project is required unless --global is set")
			}

			createdBy := "human"
			if id := optionalIdentity(cfg); id != nil {
				createdBy = id.InstanceID
			}

			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("remember: %w", err)
			}
			defer st.Close()

			params := memory.EntryParams{
				Project:      project,
				Type:         memType,
				Title:        title,
				Content:      content,
				Tags:         splitList(tags),
				RelatedFiles: splitList(files),
				CreatedBy:    createdBy,
			}

			var memID int64
			scope := project
			if global {
				memID, err = st.memories.RememberGlobal(cmd.Context(), params)
				scope = "global"
			} else {
				memID, err = st.memories.RememberProject(cmd.Context(), params)
			}
			if err != nil {
				return fmt.Errorf("remember: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "REMEMBERED: #%d [%s] in %s - %s\n", memID, memType, scope, title)
			return nil
		}),
	}

	cmd.Flags().StringVar(&project, "project", "", "project scope for the entry")
	cmd.Flags().BoolVar(&global, "global", false, "store in cross-project global memory")
	cmd.Flags().StringVar(&memType, "type", "", "entry type, e.g. decision, gotcha, pattern (required)")
	cmd.Flags().StringVar(&title, "title", "", "short title (required)")
	cmd.Flags().StringVar(&content, "content", "", "full content (required)")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	cmd.Flags().StringVar(&files, "files", "", "comma-separated related file paths")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")

	return cmd
}
