package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"

	"clambake/pkg/protocol"
)

func instanceColumns() []table.Column {
	return []table.Column{
		{Title: "Instance", Width: 14},
		{Title: "Project", Width: 16},
		{Title: "Status", Width: 14},
		{Title: "Task", Width: 30},
		{Title: "Heartbeat", Width: 10},
		{Title: "Model", Width: 10},
	}
}

func instanceRows(instances []protocol.Instance) []table.Row {
	rows := make([]table.Row, 0, len(instances))
	for _, i := range instances {
		task := i.CurrentTask
		if task == "" {
			task = "idle"
		}
		rows = append(rows, table.Row{
			i.ID, i.Project, i.Status, task, formatAge(i.HeartbeatAge), i.Model,
		})
	}
	return rows
}

func taskColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 5},
		{Title: "Status", Width: 12},
		{Title: "Project", Width: 16},
		{Title: "Role", Width: 10},
		{Title: "Pri", Width: 4},
		{Title: "Assigned", Width: 10},
		{Title: "Title", Width: 36},
	}
}

func taskRows(tasks []protocol.Task) []table.Row {
	rows := make([]table.Row, 0, len(tasks))
	for _, t := range tasks {
		role := t.AssignedRole
		if role == "" {
			role = "any"
		}
		assigned := "-"
		if t.AssignedInstance != "" {
			assigned = shortID(t.AssignedInstance)
		}
		rows = append(rows, table.Row{
			strconv.FormatInt(t.ID, 10), t.Status, t.Project, role,
			strconv.Itoa(t.Priority), assigned, t.Title,
		})
	}
	return rows
}

func messageColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 5},
		{Title: "", Width: 2},
		{Title: "From", Width: 18},
		{Title: "To", Width: 14},
		{Title: "Type", Width: 9},
		{Title: "Subject", Width: 40},
	}
}

func messageRows(messages []protocol.Message) []table.Row {
	rows := make([]table.Row, 0, len(messages))
	for _, m := range messages {
		mark := ""
		if !m.Read {
			mark = "*"
		}
		from := m.FromProject
		if from == "" {
			from = "?"
		}
		rows = append(rows, table.Row{
			strconv.FormatInt(m.ID, 10), mark,
			fmt.Sprintf("%s/%s", from, shortID(m.FromInstance)),
			m.ToTarget, m.Type, m.Subject,
		})
	}
	return rows
}

// formatAge renders a heartbeat age in the most natural unit.
func formatAge(seconds int64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm", seconds/60)
	default:
		return fmt.Sprintf("%dh", seconds/3600)
	}
}

// shortID returns at most the first 8 characters of an instance id.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
