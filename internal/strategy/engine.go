// Package strategy turns a financial profile into a fixed set of
// categorized savings recommendations using deterministic heuristics.
package strategy

import (
	"fmt"

	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/rgehrsitz/taxpilot/internal/money"
	"github.com/shopspring/decimal"
)

// Category names, in report order
const (
	CategoryInvestments   = "Tax Saving Investments"
	CategoryBusinessOptim = "Business Optimizations"
)

// Engine generates strategy reports from Rules
type Engine struct {
	Rules   Rules
	Amounts money.Formatter // used for amounts quoted in descriptions
}

// NewEngine creates an engine with the default rules
func NewEngine() *Engine {
	return &Engine{Rules: DefaultRules(), Amounts: money.WholeFormatter()}
}

// NewEngineWithRules creates an engine with validated custom rules
func NewEngineWithRules(rules Rules) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Engine{Rules: rules, Amounts: money.WholeFormatter()}, nil
}

// Generate builds the report. It never fails: negative equipment values and
// employee counts count as zero.
func (e *Engine) Generate(profile domain.FinancialProfile) domain.StrategyReport {
	categories := []domain.RecommendationCategory{
		{Category: CategoryInvestments, Items: e.investmentItems(profile)},
		{Category: CategoryBusinessOptim, Items: e.businessItems(profile)},
	}

	report := domain.StrategyReport{
		Recommendations: categories,
		ConfidenceScore: e.Rules.ConfidenceScore,
		Insights:        e.insights(profile),
	}
	report.TotalPotentialSavings = sumSavings(report.Items())
	return report
}

// FilterByImpact keeps the recommendations rated at least threshold, drops
// categories left empty and recomputes the total over what remains.
// Insights are kept as they are.
func FilterByImpact(report domain.StrategyReport, threshold domain.Impact) domain.StrategyReport {
	out := report
	out.Recommendations = nil
	for _, c := range report.Recommendations {
		var kept []domain.Recommendation
		for _, item := range c.Items {
			if item.Impact.Rank() >= threshold.Rank() {
				kept = append(kept, item)
			}
		}
		if len(kept) > 0 {
			out.Recommendations = append(out.Recommendations, domain.RecommendationCategory{Category: c.Category, Items: kept})
		}
	}
	out.TotalPotentialSavings = sumSavings(out.Items())
	return out
}

func sumSavings(items []domain.Recommendation) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.PotentialSavings)
	}
	return total
}

func (e *Engine) investmentItems(profile domain.FinancialProfile) []domain.Recommendation {
	elss := e.Rules.ELSS.Amount(profile.Income)
	nps := e.Rules.Retirement.Amount(profile.Income)

	return []domain.Recommendation{
		{
			Title: "ELSS Investment",
			Description: fmt.Sprintf("Based on your income of %s, invest %s in ELSS funds for optimal tax savings under 80C",
				e.Amounts.Currency(profile.Income), e.Amounts.Currency(elss)),
			Impact:           domain.ImpactHigh,
			PotentialSavings: elss.Mul(e.Rules.SavingsRate),
		},
		{
			Title: "NPS Contribution",
			Description: fmt.Sprintf("Additional NPS investment of %s recommended under 80CCD(1B)",
				e.Amounts.Currency(nps)),
			Impact:           domain.ImpactMedium,
			PotentialSavings: nps.Mul(e.Rules.SavingsRate),
		},
	}
}

func (e *Engine) businessItems(profile domain.FinancialProfile) []domain.Recommendation {
	equipment := nonNegative(profile.Assets.Equipment)
	employees := profile.EmployeeCount
	if employees < 0 {
		employees = 0
	}

	return []domain.Recommendation{
		{
			Title: "Asset Depreciation",
			Description: fmt.Sprintf("Claim accelerated depreciation on equipment worth %s",
				e.Amounts.Currency(equipment)),
			Impact:           domain.ImpactHigh,
			PotentialSavings: equipment.Mul(e.Rules.DepreciationRate),
		},
		{
			Title:            "Employee Benefits",
			Description:      fmt.Sprintf("Structured salary components for %d employees to maximize tax efficiency", employees),
			Impact:           domain.ImpactMedium,
			PotentialSavings: decimal.NewFromInt(int64(employees)).Mul(e.Rules.BenefitPerEmployee),
		},
	}
}

func (e *Engine) insights(profile domain.FinancialProfile) []domain.Insight {
	preferred := "New"
	if profile.Income.GreaterThan(e.Rules.OldRegimeIncomeThreshold) {
		preferred = "Old"
	}

	businessType := profile.BusinessType
	if businessType == "" {
		businessType = "business"
	}

	return []domain.Insight{
		{
			Title:      "Tax Regime Analysis",
			Insight:    fmt.Sprintf("Based on your business profile and deduction patterns, the %s tax regime appears more beneficial", preferred),
			Confidence: e.Rules.RegimeInsightConfidence,
		},
		{
			Title:      "Industry-Specific Benefits",
			Insight:    fmt.Sprintf("As a %s company, you can maximize benefits under %s for R&D expenses", businessType, e.Rules.StatutoryReference),
			Confidence: e.Rules.IndustryInsightConfidence,
		},
	}
}

func nonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
