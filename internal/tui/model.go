package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/taxpilot/internal/cache"
	"github.com/rgehrsitz/taxpilot/internal/calculation"
	"github.com/rgehrsitz/taxpilot/internal/config"
	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/rgehrsitz/taxpilot/internal/money"
	"github.com/rgehrsitz/taxpilot/internal/planner"
	"github.com/rgehrsitz/taxpilot/internal/strategy"
)

// Model represents the entire application state
type Model struct {
	currentScene Scene

	// Terminal dimensions
	width  int
	height int

	// Optional profile file; its non-income fields are kept when the
	// income is edited.
	configPath string
	config     *config.Configuration
	profile    domain.FinancialProfile

	analyzer planner.Analyzer
	money    money.Formatter

	income textinput.Model

	comparison *domain.RegimeComparison
	report     *domain.StrategyReport

	err     error
	loading bool
}

// NewModel creates a new application model. configPath may be empty.
func NewModel(configPath string) Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. 2500000"
	ti.Prompt = "Annual income: "
	ti.CharLimit = 20
	ti.Width = 24
	ti.Focus()

	return Model{
		currentScene: SceneInput,
		configPath:   configPath,
		analyzer:     newAnalyzer(calculation.NewCalculationEngine(), strategy.NewEngine()),
		money:        money.DefaultFormatter(),
		income:       ti,
		width:        80,
		height:       24,
	}
}

// newAnalyzer memoizes results in memory so revisiting an income is instant
func newAnalyzer(engine *calculation.CalculationEngine, strat *strategy.Engine) planner.Analyzer {
	return cache.NewCachedComparator(cache.NewMemoryCache(), engine, strat)
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	if m.configPath == "" {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, loadConfigCmd(m.configPath))
}

// loadConfigCmd returns a command that loads the profile file
func loadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ConfigLoadedMsg{Config: cfg}
	}
}

// analyzeCmd returns a command that runs the comparison and strategy
func analyzeCmd(a planner.Analyzer, profile domain.FinancialProfile) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		return AnalysisCompleteMsg{
			Comparison: a.Compare(ctx, profile),
			Report:     a.Generate(ctx, profile),
		}
	}
}

// strategyEngine uses the loaded rules, falling back to the defaults
func (m Model) strategyEngine() *strategy.Engine {
	if m.config != nil {
		if e, err := strategy.NewEngineWithRules(m.config.Rules); err == nil {
			return e
		}
	}
	return strategy.NewEngine()
}
