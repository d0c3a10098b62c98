package main

import (
	"fmt"
	"strings"
)

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("clambake dash"))
	sb.WriteString("\n")
	sb.WriteString(m.renderTabBar())
	sb.WriteString("\n\n")

	if m.err != nil {
		sb.WriteString(m.styles.ErrorText.Render(fmt.Sprintf("error: %v", m.err)))
		sb.WriteString("\n")
	}

	sb.WriteString(m.tables[m.activeTab].View())
	sb.WriteString("\n")
	sb.WriteString(m.renderStatusBar())

	return sb.String()
}

// renderTabBar renders the tab strip with the active tab highlighted.
func (m Model) renderTabBar() string {
	parts := make([]string, 0, int(tabCount))
	for tab := Tab(0); tab < tabCount; tab++ {
		label := fmt.Sprintf("%s (%d)", tab, m.tabRowCount(tab))
		if tab == m.activeTab {
			parts = append(parts, m.styles.TabActive.Render(label))
		} else {
			parts = append(parts, m.styles.TabIdle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

// tabRowCount returns how many rows the given tab currently holds.
func (m Model) tabRowCount(tab Tab) int {
	if m.snapshot == nil {
		return 0
	}
	switch tab {
	case TabInstances:
		return len(m.snapshot.Instances)
	case TabTasks:
		return len(m.snapshot.Tasks)
	case TabMessages:
		return len(m.snapshot.Messages)
	default:
		return 0
	}
}

// renderStatusBar renders the bottom line: refresh time and key help.
func (m Model) renderStatusBar() string {
	updated := "never"
	if !m.lastUpdate.IsZero() {
		updated = m.lastUpdate.Format("15:04:05")
	}
	return m.styles.StatusBar.Render(
		fmt.Sprintf("updated %s | tab: switch  r: refresh  q: quit", updated))
}
