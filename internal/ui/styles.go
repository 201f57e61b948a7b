package ui

import "github.com/charmbracelet/lipgloss"

// theme is one palette of the day/night toggle.
type theme struct {
	name    string
	icon    string // shown on the toggle: the mode it switches to
	header  lipgloss.Style
	clock   lipgloss.Style
	title   lipgloss.Style
	artist  lipgloss.Style
	muted   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	status  lipgloss.Style
	errText lipgloss.Style
	help    lipgloss.Style
	accent  lipgloss.Color
	panel   lipgloss.Style
}

func newTheme(name, icon string, fg, dim, faint, accent, border lipgloss.Color) theme {
	return theme{
		name:    name,
		icon:    icon,
		header:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		clock:   lipgloss.NewStyle().Foreground(dim),
		title:   lipgloss.NewStyle().Bold(true).Foreground(fg),
		artist:  lipgloss.NewStyle().Foreground(dim),
		muted:   lipgloss.NewStyle().Foreground(faint),
		label:   lipgloss.NewStyle().Foreground(faint),
		value:   lipgloss.NewStyle().Foreground(fg),
		status:  lipgloss.NewStyle().Foreground(dim),
		errText: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		help:    lipgloss.NewStyle().Foreground(faint),
		accent:  accent,
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
	}
}

var (
	nightTheme = newTheme("night", "☀", "#FFFFFF", "#AAAAAA", "#666666", "#00AEFF", "#3A3A3A")
	dayTheme   = newTheme("day", "☾", "#222222", "#555555", "#999999", "#D9480F", "#CCCCCC")
)
