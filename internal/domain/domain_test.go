package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfile() FinancialProfile {
	return FinancialProfile{
		BusinessType:  "Technology",
		Income:        decimal.NewFromInt(10000000),
		Expenses:      decimal.NewFromInt(4000000),
		Deductions:    decimal.NewFromInt(500000),
		EmployeeCount: 40,
		Assets: Assets{
			Property:    decimal.NewFromInt(5000000),
			Equipment:   decimal.NewFromInt(300000),
			Inventory:   decimal.NewFromInt(200000),
			CashAndBank: decimal.NewFromInt(1500000),
			Investments: decimal.NewFromInt(1000000),
		},
	}
}

func TestAssets_Total(t *testing.T) {
	p := sampleProfile()
	assert.True(t, p.Assets.Total().Equal(decimal.NewFromInt(8000000)))
	assert.True(t, Assets{}.Total().IsZero(), "Empty assets should total zero")

	cats := p.Assets.ByCategory()
	require.Len(t, cats, 5)
	assert.Equal(t, "cashAndBank", cats[3].Category)
}

func TestFinancialProfile_ID(t *testing.T) {
	a, err := sampleProfile().ID()
	require.NoError(t, err)
	b, err := sampleProfile().ID()
	require.NoError(t, err)
	assert.Equal(t, a, b, "Equal profiles should share an ID")
	assert.Equal(t, 5, int(a.Version()), "Should be a name-based SHA-1 UUID")

	other := sampleProfile()
	other.EmployeeCount = 41
	c, err := other.ID()
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "Different profiles should differ")
}

func TestSlabTable_Validate(t *testing.T) {
	tests := []struct {
		name  string
		table SlabTable
		want  error
	}{
		{"valid", SlabTable{Slabs: []TaxSlab{Slab(100, 0), TopSlab(0.3)}}, nil},
		{"single unbounded", SlabTable{Slabs: []TaxSlab{TopSlab(0.1)}}, nil},
		{"empty", SlabTable{}, ErrEmptySlabTable},
		{"bounded last", SlabTable{Slabs: []TaxSlab{Slab(100, 0.1)}}, ErrSlabUnbounded},
		{"unbounded middle", SlabTable{Slabs: []TaxSlab{TopSlab(0.1), TopSlab(0.2)}}, ErrSlabUnbounded},
		{"not increasing", SlabTable{Slabs: []TaxSlab{Slab(100, 0), Slab(100, 0.1), TopSlab(0.2)}}, ErrSlabOrder},
		{"zero bound", SlabTable{Slabs: []TaxSlab{Slab(0, 0), TopSlab(0.2)}}, ErrSlabOrder},
		{"rate above one", SlabTable{Slabs: []TaxSlab{TopSlab(1.5)}}, ErrSlabRate},
		{"negative rate", SlabTable{Slabs: []TaxSlab{Slab(10, -0.1), TopSlab(0.2)}}, ErrSlabRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseImpact(t *testing.T) {
	got, err := ParseImpact(" high ")
	require.NoError(t, err)
	assert.Equal(t, ImpactHigh, got)

	got, err = ParseImpact("MEDIUM")
	require.NoError(t, err)
	assert.Equal(t, ImpactMedium, got)

	_, err = ParseImpact("urgent")
	assert.Error(t, err)
}

func TestImpact_Rank(t *testing.T) {
	assert.Greater(t, ImpactHigh.Rank(), ImpactMedium.Rank())
	assert.Greater(t, ImpactMedium.Rank(), ImpactLow.Rank())
	assert.Equal(t, 0, Impact("High Priority").Rank())
}

func TestStrategyReport_Items(t *testing.T) {
	report := StrategyReport{
		Recommendations: []RecommendationCategory{
			{Category: "a", Items: []Recommendation{{Title: "one"}, {Title: "two"}}},
			{Category: "b", Items: []Recommendation{{Title: "three"}}},
		},
	}

	items := report.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "three", items[2].Title)
}
