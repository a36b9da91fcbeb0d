package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	mode      lipgloss.Style
	theme     lipgloss.Style
	selected  lipgloss.Style
	question  lipgloss.Style
	fading    lipgloss.Style
	guide     lipgloss.Style
	assistant lipgloss.Style
	viewer    lipgloss.Style
	credits   lipgloss.Style
	typing    lipgloss.Style
	help      lipgloss.Style
	frame     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4A90E2")),
		mode:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		theme:     lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245")),
		selected:  lipgloss.NewStyle().Padding(0, 1).Bold(true).Reverse(true),
		question:  lipgloss.NewStyle().Bold(true).Padding(1, 2),
		fading:    lipgloss.NewStyle().Faint(true).Padding(0, 2),
		guide:     lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#FF8C00")),
		assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		viewer:    lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		credits:   lipgloss.NewStyle().Faint(true).Italic(true),
		typing:    lipgloss.NewStyle().Faint(true),
		help:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		frame:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")),
	}
}

// themeColor tints a theme label with its sphere colour.
func (s styles) themeColor(base lipgloss.Style, color string) lipgloss.Style {
	if color == "" {
		return base
	}
	return base.Foreground(lipgloss.Color(color))
}
