package main

import (
	"fmt"
	"strconv"
	"strings"

	"clambake/internal/config"
	"clambake/pkg/protocol"
	"clambake/pkg/taskqueue"

	"github.com/spf13/cobra"
)

// newTaskCmd creates the "clambake task" command group.
func newTaskCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, list, claim, and finish tasks",
	}

	cmd.AddCommand(
		newTaskCreateCmd(cfg),
		newTaskListCmd(cfg),
		newTaskClaimCmd(cfg),
		newTaskDoneCmd(cfg),
		newTaskFailCmd(cfg),
	)

	return cmd
}

func newTaskCreateCmd(cfg *config.Config) *cobra.Command {
	var title, description, project, role, fileScope, dependsOn string
	var priority int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pending task",
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			depends, err := splitIDList(dependsOn)
			if err != nil {
				return fmt.Errorf("task create: %w", err)
			}

			createdBy := "human"
			if id := optionalIdentity(cfg); id != nil {
				createdBy = id.InstanceID
			}

			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("task create: %w", err)
			}
			defer st.Close()

			taskID, err := st.tasks.Create(cmd.Context(), taskqueue.CreateParams{
				Title:       title,
				Description: description,
				Project:     project,
				Priority:    priority,
				Role:        role,
				FileScope:   splitList(fileScope),
				DependsOn:   depends,
				CreatedBy:   createdBy,
			})
			if err != nil {
				return fmt.Errorf("task create: %w", err)
			}

			roleStr := ""
			if role != "" {
				roleStr = fmt.Sprintf(" [%s]", role)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "TASK #%d: %s%s - %s\n", taskID, project, roleStr, title)
			return nil
		}),
	}

	cmd.Flags().StringVar(&title, "title", "", "task title (required)")
	cmd.Flags().StringVar(&project, "project", "", "project the task belongs to (required)")
	cmd.Flags().StringVar(&description, "description", "", "full task spec")
	cmd.Flags().StringVar(&role, "role", "", "agent role this task is meant for (planner, coder, qa, reviewer)")
	cmd.Flags().IntVar(&priority, "priority", 0, "higher claims first")
	cmd.Flags().StringVar(&fileScope, "file-scope", "", "comma-separated files this task owns")
	cmd.Flags().StringVar(&dependsOn, "depends-on", "", "comma-separated task ids (advisory)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newTaskListCmd(cfg *config.Config) *cobra.Command {
	var project, status, role string
	var available bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally filtered",
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			if status != "" && !protocol.TaskStatus(status).Valid() {
				return fmt.Errorf("task list: unknown status %q", status)
			}

			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("task list: %w", err)
			}
			defer st.Close()

			tasks, err := st.tasks.List(cmd.Context(), taskqueue.ListOpts{
				Project:       project,
				Status:        status,
				Role:          role,
				AvailableOnly: available,
			})
			if err != nil {
				return fmt.Errorf("task list: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "TASKS: none found")
				return nil
			}

			fmt.Fprintf(out, "=== TASKS (%d) ===\n", len(tasks))
			for _, t := range tasks {
				role := t.AssignedRole
				if role == "" {
					role = "any"
				}
				inst := "-"
				if t.AssignedInstance != "" {
					inst = shortID(t.AssignedInstance)
				}
				depsStr := ""
				if len(t.DependsOn) > 0 {
					deps := make([]string, len(t.DependsOn))
					for i, d := range t.DependsOn {
						deps[i] = strconv.FormatInt(d, 10)
					}
					depsStr = fmt.Sprintf(" deps:[%s]", strings.Join(deps, ","))
				}
				fmt.Fprintf(out, "  #%d [%s] %s (%s) -> %s%s - %s\n",
					t.ID, t.Status, t.Project, role, inst, depsStr, t.Title)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&project, "project", "", "filter by project")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending, claimed, in_progress, done, failed)")
	cmd.Flags().StringVar(&role, "role", "", "filter by assigned role")
	cmd.Flags().BoolVar(&available, "available", false, "only show claimable tasks")

	return cmd
}

func newTaskClaimCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "claim <task-id>",
		Short: "Atomically claim a pending task",
		Long:  "Claims the task for this instance. Exactly one claimer wins when\nseveral instances race for the same task; the rest get an error.",
		Args:  cobra.ExactArgs(1),
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			taskID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("task claim: invalid task id %q", args[0])
			}

			id, err := requireIdentity(cfg)
			if err != nil {
				return fmt.Errorf("task claim: %w", err)
			}

			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("task claim: %w", err)
			}
			defer st.Close()

			ctx := cmd.Context()
			task, err := st.tasks.Claim(ctx, taskID, id.InstanceID)
			if err != nil {
				return fmt.Errorf("task claim: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "CLAIMED: #%d - %s\n", task.ID, task.Title)

			// Hand the claimer its working context: role prompt, spec,
			// and file scope, in that order.
			if task.AssignedRole != "" {
				role, roleErr := st.roles.Get(ctx, task.AssignedRole)
				if roleErr == nil {
					fmt.Fprintf(out, "\n=== ROLE: %s ===\n", task.AssignedRole)
					fmt.Fprintln(out, role.SystemPrompt)
				}
			}
			if task.Description != "" {
				fmt.Fprintln(out, "\n=== SPEC ===")
				fmt.Fprintln(out, task.Description)
			}
			if len(task.FileScope) > 0 {
				fmt.Fprintln(out, "\n=== FILE SCOPE ===")
				for _, f := range task.FileScope {
					fmt.Fprintf(out, "  %s\n", f)
				}
			}

			if err := st.presence.SetBusy(ctx, id.InstanceID, task.Title); err != nil {
				return fmt.Errorf("task claim: %w", err)
			}
			return nil
		}),
	}
}

func newTaskDoneCmd(cfg *config.Config) *cobra.Command {
	var result string

	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a claimed task completed",
		Args:  cobra.ExactArgs(1),
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			taskID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("task done: invalid task id %q", args[0])
			}

			instanceID := ""
			id := optionalIdentity(cfg)
			if id != nil {
				instanceID = id.InstanceID
			}

			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("task done: %w", err)
			}
			defer st.Close()

			ctx := cmd.Context()
			if err := st.tasks.Done(ctx, taskID, instanceID, result); err != nil {
				return fmt.Errorf("task done: %w", err)
			}
			if id != nil {
				if err := st.presence.ClearTask(ctx, id.InstanceID); err != nil {
					return fmt.Errorf("task done: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "DONE: task #%d completed\n", taskID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&result, "result", "", "summary of what was done")

	return cmd
}

func newTaskFailCmd(cfg *config.Config) *cobra.Command {
	var result string

	cmd := &cobra.Command{
		Use:   "fail <task-id>",
		Short: "Mark a task failed",
		Args:  cobra.ExactArgs(1),
		RunE: gated(cfg, func(cmd *cobra.Command, args []string) error {
			taskID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("task fail: invalid task id %q", args[0])
			}

			st, err := openStores(cfg)
			if err != nil {
				return fmt.Errorf("task fail: %w", err)
			}
			defer st.Close()

			ctx := cmd.Context()
			if err := st.tasks.Fail(ctx, taskID, result); err != nil {
				return fmt.Errorf("task fail: %w", err)
			}
			if id := optionalIdentity(cfg); id != nil {
				if err := st.presence.ClearTask(ctx, id.InstanceID); err != nil {
					return fmt.Errorf("task fail: %w", err)
				}
			}

			reason := result
			if reason == "" {
				reason = "no reason given"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "FAILED: task #%d - %s\n", taskID, reason)
			return nil
		}),
	}

	cmd.Flags().StringVar(&result, "result", "", "reason for failure")

	return cmd
}
