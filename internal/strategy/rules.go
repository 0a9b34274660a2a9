package strategy

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// InvestmentRule caps a recommended investment at the lesser of a fixed
// amount and a fraction of income.
type InvestmentRule struct {
	Cap            decimal.Decimal `yaml:"cap" json:"cap"`
	IncomeFraction decimal.Decimal `yaml:"income_fraction" json:"incomeFraction"`
}

// Amount returns min(Cap, income*IncomeFraction)
func (r InvestmentRule) Amount(income decimal.Decimal) decimal.Decimal {
	return decimal.Min(r.Cap, income.Mul(r.IncomeFraction))
}

// Rules holds every constant the strategy engine applies. DefaultRules
// reproduces the stock heuristics; a YAML rules block can override them.
type Rules struct {
	ELSS                      InvestmentRule  `yaml:"elss" json:"elss"`
	Retirement                InvestmentRule  `yaml:"retirement" json:"retirement"`
	SavingsRate               decimal.Decimal `yaml:"savings_rate" json:"savingsRate"`
	DepreciationRate          decimal.Decimal `yaml:"depreciation_rate" json:"depreciationRate"`
	BenefitPerEmployee        decimal.Decimal `yaml:"benefit_per_employee" json:"benefitPerEmployee"`
	ConfidenceScore           int             `yaml:"confidence_score" json:"confidenceScore"`
	OldRegimeIncomeThreshold  decimal.Decimal `yaml:"old_regime_income_threshold" json:"oldRegimeIncomeThreshold"`
	RegimeInsightConfidence   int             `yaml:"regime_insight_confidence" json:"regimeInsightConfidence"`
	IndustryInsightConfidence int             `yaml:"industry_insight_confidence" json:"industryInsightConfidence"`
	StatutoryReference        string          `yaml:"statutory_reference" json:"statutoryReference"`
	Narrative                 NarrativeRules  `yaml:"narrative" json:"narrative"`
}

// NarrativeRules drives the plain-text strategy summary
type NarrativeRules struct {
	EPFIncomeFraction       decimal.Decimal `yaml:"epf_income_fraction" json:"epfIncomeFraction"`
	Section80CCap           decimal.Decimal `yaml:"section_80c_cap" json:"section80CCap"`
	NPSIncomeFraction       decimal.Decimal `yaml:"nps_income_fraction" json:"npsIncomeFraction"`
	NPSCap                  decimal.Decimal `yaml:"nps_cap" json:"npsCap"`
	OfficeRentFraction      decimal.Decimal `yaml:"office_rent_fraction" json:"officeRentFraction"`
	BenefitPerEmployee      decimal.Decimal `yaml:"benefit_per_employee" json:"benefitPerEmployee"`
	HeadlineSavingsFraction decimal.Decimal `yaml:"headline_savings_fraction" json:"headlineSavingsFraction"`
}

// DefaultRules returns the stock heuristics
func DefaultRules() Rules {
	return Rules{
		ELSS: InvestmentRule{
			Cap:            decimal.NewFromInt(150000),
			IncomeFraction: decimal.NewFromFloat(0.10),
		},
		Retirement: InvestmentRule{
			Cap:            decimal.NewFromInt(50000),
			IncomeFraction: decimal.NewFromFloat(0.05),
		},
		SavingsRate:               decimal.NewFromFloat(0.30),
		DepreciationRate:          decimal.NewFromFloat(0.15),
		BenefitPerEmployee:        decimal.NewFromInt(25000),
		ConfidenceScore:           85,
		OldRegimeIncomeThreshold:  decimal.NewFromInt(7500000),
		RegimeInsightConfidence:   92,
		IndustryInsightConfidence: 88,
		StatutoryReference:        "Section 35(2AB)",
		Narrative: NarrativeRules{
			EPFIncomeFraction:       decimal.NewFromFloat(0.12),
			Section80CCap:           decimal.NewFromInt(150000),
			NPSIncomeFraction:       decimal.NewFromFloat(0.10),
			NPSCap:                  decimal.NewFromInt(50000),
			OfficeRentFraction:      decimal.NewFromFloat(0.20),
			BenefitPerEmployee:      decimal.NewFromInt(50000),
			HeadlineSavingsFraction: decimal.NewFromFloat(0.15),
		},
	}
}

// ErrInvalidRules is wrapped by every Rules validation failure
var ErrInvalidRules = errors.New("invalid strategy rules")

type namedDecimal struct {
	name  string
	value decimal.Decimal
}

type namedInt struct {
	name  string
	value int
}

// Validate checks that fractions are in [0,1], amounts are non-negative and
// confidences are in [0,100]. Fields are checked in declaration order, so
// the first invalid one is always the one reported.
func (r Rules) Validate() error {
	n := r.Narrative
	fractions := []namedDecimal{
		{"elss.income_fraction", r.ELSS.IncomeFraction},
		{"retirement.income_fraction", r.Retirement.IncomeFraction},
		{"savings_rate", r.SavingsRate},
		{"depreciation_rate", r.DepreciationRate},
		{"narrative.epf_income_fraction", n.EPFIncomeFraction},
		{"narrative.nps_income_fraction", n.NPSIncomeFraction},
		{"narrative.office_rent_fraction", n.OfficeRentFraction},
		{"narrative.headline_savings_fraction", n.HeadlineSavingsFraction},
	}
	for _, f := range fractions {
		if f.value.IsNegative() || f.value.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: %s must be between 0 and 1, got %s", ErrInvalidRules, f.name, f.value)
		}
	}

	amounts := []namedDecimal{
		{"elss.cap", r.ELSS.Cap},
		{"retirement.cap", r.Retirement.Cap},
		{"benefit_per_employee", r.BenefitPerEmployee},
		{"old_regime_income_threshold", r.OldRegimeIncomeThreshold},
		{"narrative.section_80c_cap", n.Section80CCap},
		{"narrative.nps_cap", n.NPSCap},
		{"narrative.benefit_per_employee", n.BenefitPerEmployee},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return fmt.Errorf("%w: %s cannot be negative", ErrInvalidRules, a.name)
		}
	}

	confidences := []namedInt{
		{"confidence_score", r.ConfidenceScore},
		{"regime_insight_confidence", r.RegimeInsightConfidence},
		{"industry_insight_confidence", r.IndustryInsightConfidence},
	}
	for _, c := range confidences {
		if c.value < 0 || c.value > 100 {
			return fmt.Errorf("%w: %s must be between 0 and 100, got %d", ErrInvalidRules, c.name, c.value)
		}
	}

	return nil
}
