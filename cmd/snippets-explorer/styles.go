package main

import "github.com/charmbracelet/lipgloss"

const (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorMuted     = lipgloss.Color("#6B7280")
	colorHighlight = lipgloss.Color("#3B82F6")
	colorWarning   = lipgloss.Color("#F59E0B")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// FileStyle renders snippet file labels.
	FileStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	WarningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)
)
