package tui

import "github.com/charmbracelet/lipgloss"

var (
	green = lipgloss.Color("#2E7D32")
	muted = lipgloss.Color("#8A8A8A")
	red   = lipgloss.Color("#C62828")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(green).MarginBottom(1)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(green).Padding(0, 1)
	tabStyle      = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
	activeTab     = lipgloss.NewStyle().Bold(true).Foreground(green).Underline(true).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(green)
	itemStyle     = lipgloss.NewStyle()
	doneStyle     = lipgloss.NewStyle().Foreground(muted).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Foreground(muted).MarginTop(1)
	statusStyle   = lipgloss.NewStyle().Foreground(green).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(red).Bold(true)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(red).Padding(1, 2)
)
