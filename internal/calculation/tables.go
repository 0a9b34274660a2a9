package calculation

import "github.com/rgehrsitz/taxpilot/internal/domain"

// Regime keys and comparison labels
const (
	OldRegimeKey   = "old"
	NewRegimeKey   = "new"
	OldRegimeLabel = "Old Regime"
	NewRegimeLabel = "New Regime"
)

// OldRegimeTable returns the old-regime slabs: 0% to 2.5L, 5% to 5L,
// 20% to 10L, 30% above.
func OldRegimeTable() domain.SlabTable {
	return domain.SlabTable{
		Name: "old_regime",
		Slabs: []domain.TaxSlab{
			domain.Slab(250000, 0),
			domain.Slab(500000, 0.05),
			domain.Slab(1000000, 0.20),
			domain.TopSlab(0.30),
		},
	}
}

// NewRegimeTable returns the new-regime slabs: 0% to 3L, 5% to 6L,
// 10% to 9L, 15% to 12L, 20% above.
func NewRegimeTable() domain.SlabTable {
	return domain.SlabTable{
		Name: "new_regime",
		Slabs: []domain.TaxSlab{
			domain.Slab(300000, 0),
			domain.Slab(600000, 0.05),
			domain.Slab(900000, 0.10),
			domain.Slab(1200000, 0.15),
			domain.TopSlab(0.20),
		},
	}
}

// FY2025Table returns the seven-slab table used by the standalone calculator
func FY2025Table() domain.SlabTable {
	return domain.SlabTable{
		Name: "fy2025",
		Slabs: []domain.TaxSlab{
			domain.Slab(400000, 0),
			domain.Slab(800000, 0.05),
			domain.Slab(1200000, 0.10),
			domain.Slab(1600000, 0.15),
			domain.Slab(2000000, 0.20),
			domain.Slab(2400000, 0.25),
			domain.TopSlab(0.30),
		},
	}
}

// BasicHigherTable returns the two-rate liability table: 20% up to 50,000
// and 40% above.
func BasicHigherTable() domain.SlabTable {
	return domain.SlabTable{
		Name: "basic_higher",
		Slabs: []domain.TaxSlab{
			domain.Slab(50000, 0.20),
			domain.TopSlab(0.40),
		},
	}
}

// OldRegime returns the built-in old regime
func OldRegime() domain.Regime {
	return domain.Regime{Key: OldRegimeKey, Label: OldRegimeLabel, Table: OldRegimeTable()}
}

// NewRegime returns the built-in new regime
func NewRegime() domain.Regime {
	return domain.Regime{Key: NewRegimeKey, Label: NewRegimeLabel, Table: NewRegimeTable()}
}

// BuiltInTables returns every built-in table keyed by a short name
func BuiltInTables() map[string]domain.SlabTable {
	return map[string]domain.SlabTable{
		OldRegimeKey: OldRegimeTable(),
		NewRegimeKey: NewRegimeTable(),
		"fy2025":     FY2025Table(),
		"basic":      BasicHigherTable(),
	}
}
