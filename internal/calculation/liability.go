package calculation

import (
	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculateLiability subtracts expenses and deductions from income and
// taxes the remainder on the basic/higher table. The effective rate is a
// percentage of gross income, zero when income is zero.
func CalculateLiability(income, expenses, deductions decimal.Decimal) domain.LiabilityResult {
	return CalculateLiabilityWithTable(income, BasicHigherTable(), expenses, deductions)
}

// CalculateLiabilityWithTable is CalculateLiability over an arbitrary table
func CalculateLiabilityWithTable(income decimal.Decimal, table domain.SlabTable, subtractors ...decimal.Decimal) domain.LiabilityResult {
	taxable := ResolveTaxableIncome(income, subtractors...)
	liability := ComputeSlabTax(taxable, table)

	effective := decimal.Zero
	if income.GreaterThan(decimal.Zero) {
		effective = liability.Div(income).Mul(decimal.NewFromInt(100))
	}

	return domain.LiabilityResult{
		TaxableIncome: taxable,
		TaxLiability:  liability,
		EffectiveRate: effective,
	}
}

// SlabCalculator applies a fixed standard deduction before taxing income on
// a slab table. It is the one call site that truncates its result.
type SlabCalculator struct {
	Table             domain.SlabTable
	StandardDeduction decimal.Decimal
	Truncate          bool // truncate tax to 2 decimal places
}

// NewSlabCalculator creates the FY2025 calculator with the 75,000 standard deduction
func NewSlabCalculator() *SlabCalculator {
	return &SlabCalculator{
		Table:             FY2025Table(),
		StandardDeduction: decimal.NewFromInt(75000),
		Truncate:          true,
	}
}

// Calculate returns the tax owed on income after the standard deduction
func (sc *SlabCalculator) Calculate(income decimal.Decimal) decimal.Decimal {
	tax := ComputeSlabTax(ResolveTaxableIncome(income, sc.StandardDeduction), sc.Table)
	if sc.Truncate {
		return tax.Truncate(2)
	}
	return tax
}
