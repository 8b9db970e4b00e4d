package tui

import "github.com/rgehrsitz/tgplan/internal/domain"

// Scene represents different screens in the TUI
type Scene int

const (
	SceneCascade Scene = iota
	ScenePlan
	SceneCompare
	SceneRules
	SceneHelp
)

func (s Scene) String() string {
	switch s {
	case SceneCascade:
		return "Generations"
	case ScenePlan:
		return "Gifting Plan"
	case SceneCompare:
		return "Compare Strategies"
	case SceneRules:
		return "Tax Rules"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// ConfigLoadedMsg signals configuration has been loaded
type ConfigLoadedMsg struct {
	Config *domain.Configuration
}

// ReportExportedMsg reports the outcome of a PDF export
type ReportExportedMsg struct {
	Path     string
	ReportID string
	Err      error
}
