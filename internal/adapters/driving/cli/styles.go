package cli

import "github.com/charmbracelet/lipgloss"

// Colours used for styled terminal output.
const (
	colourPrimary   = lipgloss.Color("#7C3AED") // Purple
	colourSecondary = lipgloss.Color("#06B6D4") // Cyan
	colourMuted     = lipgloss.Color("#6C7086")
	colourSuccess   = lipgloss.Color("#A6E3A1")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colourPrimary)

	keyStyle = lipgloss.NewStyle().
			Foreground(colourSecondary)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colourMuted)

	countStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colourSuccess)
)
