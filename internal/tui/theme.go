package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the interactive browser.
type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Selected lipgloss.Style
	Hint     lipgloss.Style
	Primary  lipgloss.Color
	Border   lipgloss.Color
	Muted    lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	Primary: lipgloss.Color("#5B8DEF"),
	Border:  lipgloss.Color("#404040"),
	Muted:   lipgloss.Color("#737373"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#5B8DEF")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
}
