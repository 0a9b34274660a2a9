package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		m.loading = false
		return m, nil

	case ConfigLoadedMsg:
		m.config = msg.Config
		m.profile = msg.Config.Profile
		engine, err := msg.Config.RegimeEngine()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.analyzer = newAnalyzer(engine, m.strategyEngine())
		if !m.profile.Income.IsZero() {
			m.income.SetValue(m.profile.Income.String())
		}
		return m, nil

	case AnalysisCompleteMsg:
		m.loading = false
		m.comparison = &msg.Comparison
		m.report = &msg.Report
		m.currentScene = SceneResults
		m.income.Blur()
		return m, nil
	}

	if m.currentScene == SceneInput {
		var cmd tea.Cmd
		m.income, cmd = m.income.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	}

	if m.currentScene == SceneResults {
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "e", "enter", "tab":
			m.currentScene = SceneInput
			return m, m.income.Focus()
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "enter":
		income, err := decimal.NewFromString(m.income.Value())
		if err != nil || income.IsNegative() {
			m.err = fmt.Errorf("enter a non-negative number, got %q", m.income.Value())
			return m, nil
		}
		m.err = nil
		m.loading = true
		profile := m.profile
		profile.Income = income
		return m, analyzeCmd(m.analyzer, profile)
	}

	var cmd tea.Cmd
	m.income, cmd = m.income.Update(msg)
	return m, cmd
}
