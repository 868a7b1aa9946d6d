// Package theme holds the terminal palette and text styles used by the CLI.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary = lipgloss.Color("#2563EB") // Blue
	Head    = lipgloss.Color("#8B5CF6") // Purple
	Heart   = lipgloss.Color("#F43F5E") // Rose
	Hands   = lipgloss.Color("#22C55E") // Green
	Accent  = lipgloss.Color("#F97316") // Orange
	Success = lipgloss.Color("#22C55E")
	Error   = lipgloss.Color("#F43F5E")
	TextDim = lipgloss.Color("#94A3B8") // Slate
	Border  = lipgloss.Color("#334155")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Section = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent).
		MarginTop(1)

	Label = lipgloss.NewStyle().
		Bold(true)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// States
var (
	OK = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Failed = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// MovementStyle colors a flow segment by its Inform/Inspire/Involve movement.
func MovementStyle(movement string) lipgloss.Style {
	switch movement {
	case "Inform":
		return lipgloss.NewStyle().Foreground(Head)
	case "Inspire":
		return lipgloss.NewStyle().Foreground(Heart)
	case "Involve":
		return lipgloss.NewStyle().Foreground(Hands)
	}
	return lipgloss.NewStyle()
}
