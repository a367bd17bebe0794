package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"free-rent/internal/editor"
)

var (
	primaryColor = lipgloss.Color("212")
	mutedColor   = lipgloss.Color("241")
	successColor = lipgloss.Color("42")
	warningColor = lipgloss.Color("214")
	errorColor   = lipgloss.Color("196")

	tabStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("237")).
			Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor).
				Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	helpStyle    = lipgloss.NewStyle().Foreground(mutedColor)
	confirmStyle = lipgloss.NewStyle().Bold(true).Foreground(warningColor)
	searchStyle  = lipgloss.NewStyle().Foreground(primaryColor)

	noticeStyles = map[editor.NoticeKind]lipgloss.Style{
		editor.NoticeInfo:     lipgloss.NewStyle().Foreground(successColor),
		editor.NoticeInvalid:  lipgloss.NewStyle().Foreground(warningColor),
		editor.NoticeConflict: lipgloss.NewStyle().Foreground(errorColor).Bold(true),
		editor.NoticeError:    lipgloss.NewStyle().Foreground(errorColor).Bold(true),
	}
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("237")).
		Bold(false)
	return s
}
