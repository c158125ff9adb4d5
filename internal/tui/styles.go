package tui

import "github.com/charmbracelet/lipgloss"

// 256-colour palette
const (
	colorMuted  = lipgloss.Color("240")
	colorText   = lipgloss.Color("252")
	colorSubtle = lipgloss.Color("244")
	colorOK     = lipgloss.Color("42")
	colorFail   = lipgloss.Color("203")
	colorWarn   = lipgloss.Color("214")
	colorAccent = lipgloss.Color("75")
	colorTitle  = lipgloss.Color("220")
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(colorTitle).Bold(true)
	taskNameStyle = lipgloss.NewStyle().Foreground(colorText)
	taskDimStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	messageStyle  = lipgloss.NewStyle().Foreground(colorSubtle)
	errorStyle    = lipgloss.NewStyle().Foreground(colorFail)
	warnStyle     = lipgloss.NewStyle().Foreground(colorWarn)
	spinnerStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	footerStyle   = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)

	statusIcons = map[TaskStatus]string{
		StatusPending:  lipgloss.NewStyle().Foreground(colorMuted).Render("○"),
		StatusComplete: lipgloss.NewStyle().Foreground(colorOK).Render("✓"),
		StatusError:    lipgloss.NewStyle().Foreground(colorFail).Render("✗"),
		StatusSkipped:  lipgloss.NewStyle().Foreground(colorMuted).Render("–"),
	}
)

// StatusIcon returns the icon for status. Running tasks show the current
// spinner frame.
func StatusIcon(status TaskStatus, spinnerFrame string) string {
	if status == StatusRunning {
		return spinnerStyle.Render(spinnerFrame)
	}
	if icon, ok := statusIcons[status]; ok {
		return icon
	}
	return statusIcons[StatusPending]
}
