package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/nao1215/impactradar/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	focusedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// severityColors maps each band to red, orange and green.
var severityColors = map[model.Severity]lipgloss.Color{
	model.SeverityLow:    lipgloss.Color("196"),
	model.SeverityMedium: lipgloss.Color("214"),
	model.SeverityHigh:   lipgloss.Color("42"),
}

func severityStyle(s model.Severity) lipgloss.Style {
	c, ok := severityColors[s]
	if !ok {
		c = lipgloss.Color("242")
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}
