package tui

import "github.com/rgehrsitz/tgplan/internal/tui/tuistyles"

// Re-export styles from tuistyles so components avoid an import cycle
var (
	TitleStyle          = tuistyles.TitleStyle
	SubtitleStyle       = tuistyles.SubtitleStyle
	StatusBarStyle      = tuistyles.StatusBarStyle
	StatusKeyStyle      = tuistyles.StatusKeyStyle
	BorderStyle         = tuistyles.BorderStyle
	ActiveBorderStyle   = tuistyles.ActiveBorderStyle
	SectionStyle        = tuistyles.SectionStyle
	LabelStyle          = tuistyles.LabelStyle
	FocusedLabelStyle   = tuistyles.FocusedLabelStyle
	ValueStyle          = tuistyles.ValueStyle
	PositiveStyle       = tuistyles.PositiveStyle
	NegativeStyle       = tuistyles.NegativeStyle
	ErrorStyle          = tuistyles.ErrorStyle
	TableHeaderStyle    = tuistyles.TableHeaderStyle
	TableHighlightStyle = tuistyles.TableHighlightStyle
)
