// Package tuistyles holds the lipgloss palette shared by the TUI and its
// components.
package tuistyles

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary   = lipgloss.Color("#1F4E79")
	ColorSecondary = lipgloss.Color("#5B9BD5")
	ColorAccent    = lipgloss.Color("#C9A227")
	ColorSuccess   = lipgloss.Color("#2E7D32")
	ColorDanger    = lipgloss.Color("#C62828")
	ColorMuted     = lipgloss.Color("#8A8A8A")
	ColorBorder    = lipgloss.Color("#5C6B7A")
	ColorHighlight = lipgloss.Color("#FFFFFF")
)

// Base styles
var (
	AppStyle = lipgloss.NewStyle().Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHighlight).
			Background(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	StatusBarStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	StatusKeyStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ActiveBorderStyle = BorderStyle.BorderForeground(ColorAccent)

	SectionStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary)

	LabelStyle        = lipgloss.NewStyle().Foreground(ColorMuted)
	FocusedLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	ValueStyle        = lipgloss.NewStyle().Bold(true)
	PositiveStyle     = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	NegativeStyle     = lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
	ErrorStyle        = lipgloss.NewStyle().Foreground(ColorDanger)

	TableHeaderStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary)
	TableCellStyle      = lipgloss.NewStyle()
	TableHighlightStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
)

// TrendStyle colors a change green when it favors the plan
func TrendStyle(favorable bool) lipgloss.Style {
	if favorable {
		return PositiveStyle
	}
	return NegativeStyle
}

// TrendIndicator returns an arrow for the direction of a change
func TrendIndicator(up bool) string {
	if up {
		return "▲"
	}
	return "▼"
}
