package compare

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rgehrsitz/taxpilot/internal/calculation"
	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/rgehrsitz/taxpilot/internal/money"
	"golang.org/x/sync/errgroup"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	MetricsCalculator *MetricsCalculator
	Money             money.Formatter
	Logger            calculation.Logger
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	return &CompareEngine{
		MetricsCalculator: NewMetricsCalculator(calcEngine),
		Money:             money.DefaultFormatter(),
		Logger:            calculation.NopLogger{},
	}
}

// SetLogger sets the logger; nil installs a no-op logger
func (ce *CompareEngine) SetLogger(l calculation.Logger) {
	ce.Logger = calculation.OrNop(l)
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string   // Name of the base scenario to compare against
	Alternatives     []string // Scenarios to compare; empty means every other scenario
	ConfigPath       string
}

// Compare evaluates the base and alternative scenarios concurrently. Any
// failure, including cancellation of ctx, discards every result.
func (ce *CompareEngine) Compare(
	ctx context.Context,
	scenarios []domain.NamedProfile,
	options CompareOptions,
) (*ComparisonSet, error) {

	byName := make(map[string]domain.NamedProfile, len(scenarios))
	for _, sc := range scenarios {
		byName[sc.Name] = sc
	}

	base, ok := byName[options.BaseScenarioName]
	if !ok {
		return nil, fmt.Errorf("base scenario %s not found in configuration", options.BaseScenarioName)
	}

	selected := []domain.NamedProfile{base}
	if len(options.Alternatives) == 0 {
		for _, sc := range scenarios {
			if sc.Name != base.Name {
				selected = append(selected, sc)
			}
		}
	} else {
		for _, name := range options.Alternatives {
			sc, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("alternative scenario %s not found", name)
			}
			selected = append(selected, sc)
		}
	}

	results := make([]ComparisonResult, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, sc := range selected {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			results[i] = ce.MetricsCalculator.CalculateMetrics(sc)
			ce.Logger.Debugf("scenario %s liability=%s recommend=%s", sc.Name,
				results[i].Liability.TaxLiability, results[i].Regime.Recommendation)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to calculate scenarios: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to calculate scenarios: %w", err)
	}

	baseResult := results[0]
	alternatives := make([]ComparisonResult, 0, len(results)-1)
	for _, r := range results[1:] {
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(r, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   base.Name,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
		ConfigPath:         options.ConfigPath,
	}
	compSet.Recommendations = GenerateRecommendations(compSet, ce.Money)

	return compSet, nil
}
