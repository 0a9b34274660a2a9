package tui

import (
	"github.com/rgehrsitz/taxpilot/internal/config"
	"github.com/rgehrsitz/taxpilot/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneInput Scene = iota
	SceneResults
)

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneInput:
		return "Income"
	case SceneResults:
		return "Results"
	default:
		return "Unknown"
	}
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// ConfigLoadedMsg signals the optional profile file has been loaded
type ConfigLoadedMsg struct {
	Config *config.Configuration
}

// AnalysisCompleteMsg carries the results for the entered income
type AnalysisCompleteMsg struct {
	Comparison domain.RegimeComparison
	Report     domain.StrategyReport
}
