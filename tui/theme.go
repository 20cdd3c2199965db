package tui

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorWhite).
	Background(colorBlue).
	Padding(0, 1)

var itemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

var selectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(colorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(colorBlue)

var helpStyle = lipgloss.NewStyle().
	Foreground(colorGray).
	Italic(true)

var errorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorRed)

var infoStyle = lipgloss.NewStyle().
	Foreground(colorGreen)

// statusStyle returns a color-coded style for a task status.
func statusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch status {
	case "Not Started":
		return base.Foreground(colorGray)
	case "In Progress":
		return base.Foreground(colorYellow)
	case "Completed":
		return base.Foreground(colorGreen)
	default:
		return base.Foreground(colorGray)
	}
}

// priorityStyle returns a color-coded style for a task priority.
func priorityStyle(priority string) lipgloss.Style {
	base := lipgloss.NewStyle()

	switch priority {
	case "High":
		return base.Foreground(colorRed).Bold(true)
	case "Moderate":
		return base.Foreground(colorYellow)
	case "Low":
		return base.Foreground(colorGray)
	default:
		return base.Foreground(colorGray)
	}
}
