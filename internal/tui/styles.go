package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#ff4500")
	green  = lipgloss.Color("#4caf50")
	red    = lipgloss.Color("#f44336")
	muted  = lipgloss.Color("#888888")
)

type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Muted   lipgloss.Style
	Notice  lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Confirm lipgloss.Style
	Help    lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			MarginBottom(1),
		Label: lipgloss.NewStyle().
			Width(10),
		Focused: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Width(10),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(red).
			Padding(0, 1).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(red),
		Success: lipgloss.NewStyle().
			Foreground(green),
		Confirm: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(red).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1),
	}
}
