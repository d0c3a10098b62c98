package main

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the clambake dashboard.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
}

// DefaultTheme returns the default palette.
func DefaultTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("12"),  // Blue
		Secondary: lipgloss.Color("14"),  // Cyan
		Success:   lipgloss.Color("10"),  // Green
		Warning:   lipgloss.Color("11"),  // Yellow
		Error:     lipgloss.Color("9"),   // Red
		Muted:     lipgloss.Color("240"), // Gray
	}
}

// Styles holds the derived lipgloss styles used across views.
type Styles struct {
	Title     lipgloss.Style
	TabActive lipgloss.Style
	TabIdle   lipgloss.Style
	StatusBar lipgloss.Style
	ErrorText lipgloss.Style
}

// NewStyles derives the view styles from a theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Padding(0, 1),
		TabActive: lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary).Underline(true).Padding(0, 1),
		TabIdle:   lipgloss.NewStyle().Foreground(theme.Muted).Padding(0, 1),
		StatusBar: lipgloss.NewStyle().Foreground(theme.Muted).Padding(0, 1),
		ErrorText: lipgloss.NewStyle().Foreground(theme.Error).Padding(0, 1),
	}
}
