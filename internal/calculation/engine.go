package calculation

import (
	"fmt"

	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculationEngine bundles the configured calculators used by the CLI,
// the planner and scenario comparison.
type CalculationEngine struct {
	Regimes        *RegimeComparator
	Calculator     *SlabCalculator
	LiabilityTable domain.SlabTable
	Subtractors    SubtractorSet
	Logger         Logger
	Debug          bool
}

// NewCalculationEngine creates an engine over the built-in tables
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		Regimes:        NewRegimeComparator(),
		Calculator:     NewSlabCalculator(),
		LiabilityTable: BasicHigherTable(),
		Subtractors:    SubtractExpensesAndDeductions,
		Logger:         NopLogger{},
	}
}

// NewCalculationEngineWithConfig creates an engine whose regimes come from
// configuration. Zero-valued regimes fall back to the built-ins.
func NewCalculationEngineWithConfig(oldRegime, newRegime domain.Regime) (*CalculationEngine, error) {
	if len(oldRegime.Table.Slabs) == 0 {
		oldRegime = OldRegime()
	}
	if len(newRegime.Table.Slabs) == 0 {
		newRegime = NewRegime()
	}
	rc, err := NewRegimeComparatorWithConfig(oldRegime, newRegime)
	if err != nil {
		return nil, fmt.Errorf("invalid regime configuration: %w", err)
	}
	ce := NewCalculationEngine()
	ce.Regimes = rc
	return ce, nil
}

// SetLogger sets the engine logger; nil installs a no-op logger
func (ce *CalculationEngine) SetLogger(l Logger) {
	ce.Logger = OrNop(l)
}

// CompareProfile runs the regime comparison on the profile's gross income
func (ce *CalculationEngine) CompareProfile(profile domain.FinancialProfile) domain.RegimeComparison {
	result := ce.Regimes.Compare(profile.Income)
	if ce.Debug {
		ce.Logger.Debugf("regime comparison income=%s old=%s new=%s recommend=%s",
			profile.Income, result.OldRegime.TotalTax, result.NewRegime.TotalTax, result.Recommendation)
	}
	return result
}

// Liability computes the profile's liability using the engine's subtractor set
func (ce *CalculationEngine) Liability(profile domain.FinancialProfile) domain.LiabilityResult {
	result := CalculateLiabilityWithTable(profile.Income, ce.LiabilityTable, ProfileSubtractors(profile, ce.Subtractors)...)
	if ce.Debug {
		ce.Logger.Debugf("liability income=%s taxable=%s liability=%s",
			profile.Income, result.TaxableIncome, result.TaxLiability)
	}
	return result
}

// SlabTax computes tax on amount under the named built-in table
func (ce *CalculationEngine) SlabTax(amount decimal.Decimal, tableName string) (decimal.Decimal, error) {
	table, ok := BuiltInTables()[tableName]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown slab table %q", tableName)
	}
	return ComputeSlabTax(amount, table), nil
}
