package main

import (
	"errors"
	"fmt"
	"strings"

	"clambake/internal/config"
	"clambake/pkg/memory"

	"github.com/spf13/cobra"
)

// newRecallCmd creates the "clambake recall" subcommand.
func newRecallCmd(cfg *config.Config) *cobra.Command {
	var project, memType, search string
	var global bool
	var limit int

	cmd := &cobra.Command{
		Use:   "recall",
		Short: "Query project or global memory",
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			if !global && project == "" {
				return errors.New("recall: --project is required unless --global is set")
			}

			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("recall: %w", err)
			}
			defer st.Close()

			entries, err := st.memories.Recall(cmd.Context(), memory.RecallOpts{
				Global:  global,
				Project: project,
				Type:    memType,
				Search:  search,
				Limit:   limit,
			})
			if err != nil {
				return fmt.Errorf("recall: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "RECALL: no results")
				return nil
			}

			scope := strings.ToUpper(project)
			if global {
				scope = "GLOBAL"
			}
			fmt.Fprintf(out, "RECALL [%s]: %d result(s)\n", scope, len(entries))
			for _, e := range entries {
				var tagStr string
				for _, t := range e.Tags {
					tagStr += " #" + t
				}
				statusStr := ""
				if e.Status != "" && e.Status != "active" {
					statusStr = fmt.Sprintf(" (%s)", e.Status)
				}
				fmt.Fprintf(out, "\n  #%d [%s]%s %s%s\n", e.ID, e.Type, statusStr, e.Title, tagStr)
				fmt.Fprintf(out, "    %s\n", truncate(e.Content, 300))
				if len(e.RelatedFiles) > 0 {
					fmt.Fprintf(out, "    files: %s\n", strings.Join(e.RelatedFiles, ", "))
				}
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&project, "project", "", "project scope to query")
	cmd.Flags().BoolVar(&global, "global", false, "query cross-project global memory")
	cmd.Flags().StringVar(&memType, "type", "", "filter by entry type")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive substring match on title or content")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to return")

	return cmd
}
