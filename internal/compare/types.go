package compare

import (
	"fmt"

	"github.com/rgehrsitz/taxpilot/internal/calculation"
	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/rgehrsitz/taxpilot/internal/money"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single scenario with its calculated metrics
type ComparisonResult struct {
	ScenarioName string                  `json:"scenarioName"`
	Profile      domain.FinancialProfile `json:"profile"`

	// Key Metrics
	Liability domain.LiabilityResult  `json:"liability"`
	Regime    domain.RegimeComparison `json:"regimeComparison"`
	BestTax   decimal.Decimal         `json:"bestRegimeTax"` // tax under the recommended regime

	// Comparison to Base
	TaxDiffFromBase       decimal.Decimal `json:"taxDiffFromBase"`
	TaxPctFromBase        decimal.Decimal `json:"taxPctFromBase"`
	RegimeTaxDiffFromBase decimal.Decimal `json:"regimeTaxDiffFromBase"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath,omitempty"`
}

// All returns the base result followed by the alternatives
func (cs *ComparisonSet) All() []ComparisonResult {
	all := make([]ComparisonResult, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil {
		all = append(all, *cs.BaseResult)
	}
	return append(all, cs.AlternativeResults...)
}

// MetricsCalculator derives comparison metrics from a profile
type MetricsCalculator struct {
	Engine *calculation.CalculationEngine
}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator(engine *calculation.CalculationEngine) *MetricsCalculator {
	if engine == nil {
		engine = calculation.NewCalculationEngine()
	}
	return &MetricsCalculator{Engine: engine}
}

// CalculateMetrics computes liability and regime metrics for a scenario
func (mc *MetricsCalculator) CalculateMetrics(scenario domain.NamedProfile) ComparisonResult {
	regime := mc.Engine.CompareProfile(scenario.Profile)
	return ComparisonResult{
		ScenarioName: scenario.Name,
		Profile:      scenario.Profile,
		Liability:    mc.Engine.Liability(scenario.Profile),
		Regime:       regime,
		BestTax:      decimal.Min(regime.OldRegime.TotalTax, regime.NewRegime.TotalTax),
	}
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.TaxDiffFromBase = scenario.Liability.TaxLiability.Sub(base.Liability.TaxLiability)

	if !base.Liability.TaxLiability.IsZero() {
		scenario.TaxPctFromBase = scenario.TaxDiffFromBase.
			Div(base.Liability.TaxLiability).
			Mul(decimal.NewFromInt(100))
	}

	scenario.RegimeTaxDiffFromBase = scenario.BestTax.Sub(base.BestTax)

	return scenario
}

// GenerateRecommendations creates highlights from comparison results
func GenerateRecommendations(compSet *ComparisonSet, f money.Formatter) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	// Find lowest liability
	lowestTax := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.Liability.TaxLiability.LessThan(lowestTax.Liability.TaxLiability) {
			lowestTax = alt
		}
	}

	if lowestTax != compSet.BaseResult {
		savings := compSet.BaseResult.Liability.TaxLiability.Sub(lowestTax.Liability.TaxLiability)
		recommendations = append(recommendations,
			"Lowest Tax: "+lowestTax.ScenarioName+" pays "+f.Currency(savings)+
				" less than the base scenario")
	}

	// Find lowest effective rate
	lowestRate := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.Liability.EffectiveRate.LessThan(lowestRate.Liability.EffectiveRate) {
			lowestRate = alt
		}
	}

	if lowestRate != compSet.BaseResult {
		recommendations = append(recommendations,
			fmt.Sprintf("Lowest Effective Rate: %s at %s%% (base %s%%)", lowestRate.ScenarioName,
				lowestRate.Liability.EffectiveRate.StringFixed(1),
				compSet.BaseResult.Liability.EffectiveRate.StringFixed(1)))
	}

	// Largest savings from choosing the better regime, base included
	largest := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.Regime.PotentialSavings.GreaterThan(largest.Regime.PotentialSavings) {
			largest = alt
		}
	}

	if largest.Regime.PotentialSavings.IsPositive() {
		recommendations = append(recommendations,
			"Largest Regime Savings: "+largest.ScenarioName+" saves "+
				f.Currency(largest.Regime.PotentialSavings)+" under the "+largest.Regime.Recommendation)
	}

	return recommendations
}
