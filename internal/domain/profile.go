package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// profileNamespace scopes profile IDs so they never collide with other
// name-based UUIDs.
var profileNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://taxpilot.dev/profile"))

// FinancialProfile is the per-request input describing a business or
// individual. It is never mutated by the calculators.
type FinancialProfile struct {
	BusinessType  string          `yaml:"business_type" json:"businessType"`
	Income        decimal.Decimal `yaml:"income" json:"income"`
	Expenses      decimal.Decimal `yaml:"expenses" json:"expenses"`
	Deductions    decimal.Decimal `yaml:"deductions" json:"deductions"`
	EmployeeCount int             `yaml:"employee_count" json:"employeeCount"`
	Assets        Assets          `yaml:"assets" json:"assets"`
}

// Assets holds asset values by category
type Assets struct {
	Property    decimal.Decimal `yaml:"property" json:"property"`
	Equipment   decimal.Decimal `yaml:"equipment" json:"equipment"`
	Inventory   decimal.Decimal `yaml:"inventory" json:"inventory"`
	CashAndBank decimal.Decimal `yaml:"cash_and_bank" json:"cashAndBank"`
	Investments decimal.Decimal `yaml:"investments" json:"investments"`
}

// Total returns the sum of all asset categories
func (a Assets) Total() decimal.Decimal {
	return decimal.Sum(a.Property, a.Equipment, a.Inventory, a.CashAndBank, a.Investments)
}

// ByCategory returns the asset values keyed by their JSON category names,
// in a stable order suitable for display.
func (a Assets) ByCategory() []AssetValue {
	return []AssetValue{
		{Category: "property", Value: a.Property},
		{Category: "equipment", Value: a.Equipment},
		{Category: "inventory", Value: a.Inventory},
		{Category: "cashAndBank", Value: a.CashAndBank},
		{Category: "investments", Value: a.Investments},
	}
}

// AssetValue pairs an asset category name with its value
type AssetValue struct {
	Category string          `json:"category"`
	Value    decimal.Decimal `json:"value"`
}

// NamedProfile is a profile tagged with a scenario name
type NamedProfile struct {
	Name    string           `yaml:"name" json:"name"`
	Profile FinancialProfile `yaml:"profile" json:"profile"`
}

// ID returns a name-based UUID derived from the profile's canonical JSON.
// Equal profiles always yield the same ID, which keys plans and cached
// results.
func (p FinancialProfile) ID() (uuid.UUID, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode profile: %w", err)
	}
	return uuid.NewSHA1(profileNamespace, data), nil
}
