package calculation

import (
	"fmt"

	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/shopspring/decimal"
)

// RegimeComparator evaluates one income under two regimes and picks the
// cheaper one. On an exact tie the new regime is recommended.
type RegimeComparator struct {
	Old domain.Regime
	New domain.Regime
}

// NewRegimeComparator creates a comparator over the built-in regimes
func NewRegimeComparator() *RegimeComparator {
	return &RegimeComparator{Old: OldRegime(), New: NewRegime()}
}

// NewRegimeComparatorWithConfig creates a comparator over caller-supplied
// regimes, validating both tables.
func NewRegimeComparatorWithConfig(oldRegime, newRegime domain.Regime) (*RegimeComparator, error) {
	if err := oldRegime.Table.Validate(); err != nil {
		return nil, fmt.Errorf("old regime %q: %w", oldRegime.Label, err)
	}
	if err := newRegime.Table.Validate(); err != nil {
		return nil, fmt.Errorf("new regime %q: %w", newRegime.Label, err)
	}
	return &RegimeComparator{Old: oldRegime, New: newRegime}, nil
}

// Compare computes both regime results for income
func (rc *RegimeComparator) Compare(income decimal.Decimal) domain.RegimeComparison {
	oldResult := domain.RegimeResult{
		TotalTax: ComputeSlabTax(income, rc.Old.Table),
		Regime:   rc.Old.Key,
	}
	newResult := domain.RegimeResult{
		TotalTax: ComputeSlabTax(income, rc.New.Table),
		Regime:   rc.New.Key,
	}

	recommendation := rc.New.Label
	if oldResult.TotalTax.LessThan(newResult.TotalTax) {
		recommendation = rc.Old.Label
	}

	return domain.RegimeComparison{
		Income:           income,
		OldRegime:        oldResult,
		NewRegime:        newResult,
		Recommendation:   recommendation,
		PotentialSavings: oldResult.TotalTax.Sub(newResult.TotalTax).Abs(),
	}
}

// RegimeLabel returns the display label for a built-in regime key. Other
// keys are returned unchanged.
func RegimeLabel(key string) string {
	switch key {
	case OldRegimeKey:
		return OldRegimeLabel
	case NewRegimeKey:
		return NewRegimeLabel
	default:
		return key
	}
}

// CompareRegimes compares income under the built-in old and new regimes
func CompareRegimes(income decimal.Decimal) domain.RegimeComparison {
	return NewRegimeComparator().Compare(income)
}
