// Package tui provides the interactive terminal UI for Magic Train.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#FF6B9D") // Pink - titles, the player
	ColorSecondary = lipgloss.Color("#4ecdc4") // Teal - characters, subtitles
	ColorAccent    = lipgloss.Color("#ffe66d") // Yellow - highlights, hints
	ColorMuted     = lipgloss.Color("#666666") // Gray - help text
	ColorSuccess   = lipgloss.Color("#a8e6cf") // Green - toasts, levels
	ColorText      = lipgloss.Color("#f1faee") // Light text
	ColorLabel     = lipgloss.Color("#a8dadc") // Label color
	ColorBg        = lipgloss.Color("#1a1a2e") // Dark background
	ColorBgAlt     = lipgloss.Color("#2d3436") // Alt background
	ColorBorder    = lipgloss.Color("#3d5a80") // Border color
)

// Sidebar styles
var (
	SidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderRight(true).
			BorderForeground(ColorBorder).
			Padding(1, 1)

	SidebarTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				Background(ColorBg).
				Padding(0, 1).
				MarginBottom(1)

	SidebarItemStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Padding(0, 1)

	SidebarItemActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorAccent).
				Background(ColorBgAlt).
				Padding(0, 1)

	SidebarHelpStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				MarginTop(1).
				Padding(0, 1)
)

// Title styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Background(ColorBg).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)
)

// Shared text styles
var (
	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)
)

// Content area style
var ContentStyle = lipgloss.NewStyle().
	Padding(1, 2)
