package agent

import "github.com/charmbracelet/lipgloss"

// Theme is the agent's terminal palette.
type Theme struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Label   lipgloss.Style
	LeadBox lipgloss.Style
	Keys    lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

var DefaultTheme = Theme{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
	Label: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#a78bfa")),
	LeadBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#0f766e")).
		Padding(0, 2),
	Keys: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")),
	Info: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3b82f6")),
	Success: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")).
		Bold(true),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
}
