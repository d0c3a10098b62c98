package main

import (
	"fmt"
	"strings"

	"clambake/internal/config"
	"clambake/pkg/protocol"

	"github.com/spf13/cobra"
)

// newRoleCmd creates the "clambake role" command group.
func newRoleCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Manage agent role definitions",
	}

	cmd.AddCommand(
		newRoleListCmd(cfg),
		newRoleGetCmd(cfg),
		newRoleCreateCmd(cfg),
		newRoleSeedCmd(cfg),
	)

	return cmd
}

func newRoleListCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all agent roles",
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("role list: %w", err)
			}
			defer st.Close()

			all, err := st.roles.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("role list: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(all) == 0 {
				fmt.Fprintln(out, "ROLES: none defined. Run 'clambake role seed' to create defaults.")
				return nil
			}

			fmt.Fprintln(out, "=== AGENT ROLES ===")
			for _, r := range all {
				fmt.Fprintf(out, "  [%s] %s  (%s)\n",
					r.Name, r.Description, strings.Join(r.Capabilities, ", "))
			}
			return nil
		}),
	}
}

func newRoleGetCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show a role's details and system prompt",
		Args:  cobra.ExactArgs(1),
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("role get: %w", err)
			}
			defer st.Close()

			r, err := st.roles.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("role get: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ROLE: %s\n", r.Name)
			fmt.Fprintf(out, "  Description: %s\n", r.Description)
			fmt.Fprintf(out, "  Capabilities: %s\n", strings.Join(r.Capabilities, ", "))
			fmt.Fprintf(out, "  System Prompt:\n%s\n", r.SystemPrompt)
			return nil
		}),
	}
}

func newRoleCreateCmd(cfg *config.Config) *cobra.Command {
	var name, description, prompt, capabilities string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create or update an agent role",
		Long:  "Roles are upserted by name: re-creating an existing role overwrites\nits description, prompt, and capabilities.",
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("role create: %w", err)
			}
			defer st.Close()

			if err := st.roles.Upsert(cmd.Context(), protocol.Role{
				Name:         name,
				Description:  description,
				SystemPrompt: prompt,
				Capabilities: splitList(capabilities),
			}); err != nil {
				return fmt.Errorf("role create: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ROLE: '%s' saved\n", name)
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "role name (required)")
	cmd.Flags().StringVar(&description, "description", "", "one-line description (required)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "system prompt for this role (required)")
	cmd.Flags().StringVar(&capabilities, "capabilities", "", "comma-separated capabilities")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

func newRoleSeedCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the default roles (planner, coder, qa, reviewer)",
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("role seed: %w", err)
			}
			defer st.Close()

			n, err := st.roles.Seed(cmd.Context())
			if err != nil {
				return fmt.Errorf("role seed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "SEEDED: %d agent roles (planner, coder, qa, reviewer)\n", n)
			return nil
		}),
	}
}
