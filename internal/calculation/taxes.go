package calculation

import (
	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Slab tables partition [0, ∞): each slab taxes the income between the
//    previous slab's upper bound and its own at a single marginal rate.
//
// 2. No rounding happens here. Formatting to 2 decimals (or truncating) is
//    done by the caller, see internal/money.
//
// 3. Negative taxable amounts are treated as zero rather than rejected.

// SlabPortion is the share of an amount that falls inside one slab
type SlabPortion struct {
	Lower  decimal.Decimal  `json:"lower"`
	Upper  *decimal.Decimal `json:"upper,omitempty"` // nil for the unbounded slab
	Rate   decimal.Decimal  `json:"rate"`
	Amount decimal.Decimal  `json:"amount"`
	Tax    decimal.Decimal  `json:"tax"`
}

// ResolveTaxableIncome reduces gross income by the given subtractors and
// floors the result at zero.
func ResolveTaxableIncome(income decimal.Decimal, subtractors ...decimal.Decimal) decimal.Decimal {
	taxable := income
	for _, s := range subtractors {
		taxable = taxable.Sub(s)
	}
	if taxable.IsNegative() {
		return decimal.Zero
	}
	return taxable
}

// SubtractorSet selects which profile fields reduce gross income
type SubtractorSet string

const (
	// SubtractDeductions subtracts deductions only
	SubtractDeductions SubtractorSet = "deductions"
	// SubtractExpensesAndDeductions subtracts expenses then deductions
	SubtractExpensesAndDeductions SubtractorSet = "expenses+deductions"
)

// ProfileSubtractors returns the subtractors a profile contributes under set.
// Unknown sets subtract nothing.
func ProfileSubtractors(profile domain.FinancialProfile, set SubtractorSet) []decimal.Decimal {
	switch set {
	case SubtractDeductions:
		return []decimal.Decimal{profile.Deductions}
	case SubtractExpensesAndDeductions:
		return []decimal.Decimal{profile.Expenses, profile.Deductions}
	default:
		return nil
	}
}

// ComputeSlabTax returns the progressive tax owed on amount under table.
// The table is assumed to satisfy SlabTable.Validate.
func ComputeSlabTax(amount decimal.Decimal, table domain.SlabTable) decimal.Decimal {
	tax := decimal.Zero
	for _, p := range ComputeSlabBreakdown(amount, table) {
		tax = tax.Add(p.Tax)
	}
	return tax
}

// ComputeSlabBreakdown walks the slabs in ascending order and reports how
// much of amount each slab taxes. Slabs above the amount are omitted.
func ComputeSlabBreakdown(amount decimal.Decimal, table domain.SlabTable) []SlabPortion {
	remaining := amount
	previous := decimal.Zero
	var portions []SlabPortion

	for _, slab := range table.Slabs {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}

		// The unbounded slab takes whatever is left
		inSlab := remaining
		if !slab.IsUnbounded() {
			inSlab = decimal.Min(remaining, slab.UpperBound.Sub(previous))
		}

		portions = append(portions, SlabPortion{
			Lower:  previous,
			Upper:  slab.UpperBound,
			Rate:   slab.Rate,
			Amount: inSlab,
			Tax:    inSlab.Mul(slab.Rate),
		})

		remaining = remaining.Sub(inSlab)
		if !slab.IsUnbounded() {
			previous = *slab.UpperBound
		}
	}

	return portions
}

// MarginalRate returns the rate applied to the last unit of amount.
// Zero amounts report the first slab's rate.
func MarginalRate(amount decimal.Decimal, table domain.SlabTable) decimal.Decimal {
	if len(table.Slabs) == 0 {
		return decimal.Zero
	}
	portions := ComputeSlabBreakdown(amount, table)
	if len(portions) == 0 {
		return table.Slabs[0].Rate
	}
	return portions[len(portions)-1].Rate
}
