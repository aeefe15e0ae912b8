package tui

import "github.com/charmbracelet/lipgloss"

var (
	activeTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Background(lipgloss.Color("236")).Padding(0, 1).Bold(true)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1)
	docStyle         = lipgloss.NewStyle().Padding(1, 2)
	countdownStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	timeStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dayStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Underline(true)
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)
