package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Slab table validation errors
var (
	ErrEmptySlabTable = errors.New("slab table has no slabs")
	ErrSlabOrder      = errors.New("slab upper bounds must be positive and strictly increasing")
	ErrSlabRate       = errors.New("slab rate must be between 0 and 1")
	ErrSlabUnbounded  = errors.New("only the final slab may be unbounded, and it must be")
)

// TaxSlab is one contiguous bracket. A nil UpperBound marks the final,
// unbounded slab. The lower edge is the previous slab's UpperBound (or 0).
type TaxSlab struct {
	UpperBound *decimal.Decimal `yaml:"upper_bound,omitempty" json:"upperBound,omitempty"`
	Rate       decimal.Decimal  `yaml:"rate" json:"rate"`
}

// IsUnbounded reports whether the slab extends to infinity
func (s TaxSlab) IsUnbounded() bool {
	return s.UpperBound == nil
}

// Slab builds a bounded slab
func Slab(upper int64, rate float64) TaxSlab {
	u := decimal.NewFromInt(upper)
	return TaxSlab{UpperBound: &u, Rate: decimal.NewFromFloat(rate)}
}

// TopSlab builds the final unbounded slab
func TopSlab(rate float64) TaxSlab {
	return TaxSlab{Rate: decimal.NewFromFloat(rate)}
}

// SlabTable is an ordered sequence of slabs partitioning [0, ∞)
type SlabTable struct {
	Name  string    `yaml:"name" json:"name"`
	Slabs []TaxSlab `yaml:"slabs" json:"slabs"`
}

// Validate checks the partition invariant
func (t SlabTable) Validate() error {
	if len(t.Slabs) == 0 {
		return ErrEmptySlabTable
	}
	prev := decimal.Zero
	last := len(t.Slabs) - 1
	for i, s := range t.Slabs {
		if s.Rate.IsNegative() || s.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("slab %d: %w", i, ErrSlabRate)
		}
		if i == last {
			if !s.IsUnbounded() {
				return fmt.Errorf("slab %d: %w", i, ErrSlabUnbounded)
			}
			continue
		}
		if s.IsUnbounded() {
			return fmt.Errorf("slab %d: %w", i, ErrSlabUnbounded)
		}
		if s.UpperBound.LessThanOrEqual(prev) {
			return fmt.Errorf("slab %d: %w", i, ErrSlabOrder)
		}
		prev = *s.UpperBound
	}
	return nil
}

// Regime is a named slab table with its comparison label
type Regime struct {
	Key   string    `yaml:"key" json:"key"`
	Label string    `yaml:"label" json:"label"`
	Table SlabTable `yaml:"table" json:"table"`
}

// RegimeResult is the tax owed under a single regime
type RegimeResult struct {
	TotalTax decimal.Decimal `json:"totalTax"`
	Regime   string          `json:"regime"`
}

// RegimeComparison is the outcome of evaluating one income under two regimes
type RegimeComparison struct {
	Income           decimal.Decimal `json:"income"`
	OldRegime        RegimeResult    `json:"oldRegime"`
	NewRegime        RegimeResult    `json:"newRegime"`
	Recommendation   string          `json:"recommendation"`
	PotentialSavings decimal.Decimal `json:"potentialSavings"`
}

// LiabilityResult is the outcome of a simple liability calculation
type LiabilityResult struct {
	TaxableIncome decimal.Decimal `json:"taxableIncome"`
	TaxLiability  decimal.Decimal `json:"taxLiability"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"` // percent of gross income
}
