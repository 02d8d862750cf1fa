package ui

import "github.com/charmbracelet/lipgloss"

// palette holds the handful of styles the views share.
type palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

var styles = palette{
	title: fg("#7D56F4").Bold(true).MarginBottom(1),
	ok:    fg("#04B575").Bold(true),
	err:   fg("#FF5F5F").Bold(true),
	warn:  fg("#FFA500"),
	help:  fg("#626262").Italic(true),
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
