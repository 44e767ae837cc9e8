package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles for the progress panel.
type Styles struct {
	Accent lipgloss.Style
	Muted  lipgloss.Style
	Error  lipgloss.Style
}

// NewStyles creates the default panel styles using standard ANSI colors so
// they track the user's terminal palette.
func NewStyles() Styles {
	return Styles{
		Accent: lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
}
