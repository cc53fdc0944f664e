package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style of the terminal dashboard.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Normal      lipgloss.Style
	Muted       lipgloss.Style
	Error       lipgloss.Style
	Cursor      lipgloss.Style
	Checked     lipgloss.Style
	Column      lipgloss.Style
	ActiveCol   lipgloss.Style
	Card        lipgloss.Style
	CardLabel   lipgloss.Style
	CardValue   lipgloss.Style
	Bar         lipgloss.Style
	HeatLevels  []lipgloss.Style
	Primary     lipgloss.Color
	Border      lipgloss.Color
	ActiveFrame lipgloss.Color
}

// Default is the purple dashboard theme.
var Default = Theme{
	Primary:     lipgloss.Color("#7c3aed"),
	Border:      lipgloss.Color("#404040"),
	ActiveFrame: lipgloss.Color("#a78bfa"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		Background(lipgloss.Color("#7c3aed")).
		Padding(0, 1),
	Subtitle: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	Cursor: lipgloss.NewStyle().
		Background(lipgloss.Color("#404040")).
		Foreground(lipgloss.Color("#fafafa")),
	Checked: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a78bfa")).
		Bold(true),
	Column: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
	ActiveCol: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#a78bfa")).
		Padding(0, 1),
	Card: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7c3aed")).
		Padding(0, 1).
		Width(20),
	CardLabel: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	CardValue: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Bar: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a855f7")),
	HeatLevels: []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#404040")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#d8b4fe")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#a855f7")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#7e22ce")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#581c87")).Bold(true),
	},
}
