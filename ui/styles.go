package ui

import "github.com/charmbracelet/lipgloss"

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Bold(true).
			Padding(0, 2).
			MarginBottom(1)

	// Outcome colours, shared by the summary and both views
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)
	ReplacedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// InfoStyle renders source and target paths
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	// KeeperStyle marks the file a backup run would retain
	KeeperStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Underline(true)
)
