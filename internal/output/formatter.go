// Package output renders results for the terminal and for files.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/taxpilot/internal/calculation"
	"github.com/rgehrsitz/taxpilot/internal/compare"
	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/rgehrsitz/taxpilot/internal/money"
	"github.com/shopspring/decimal"
)

// SlabTaxResult is the tax on an amount under one table with its breakdown
type SlabTaxResult struct {
	Table        string                    `json:"table"`
	Amount       decimal.Decimal           `json:"amount"`
	Tax          decimal.Decimal           `json:"tax"`
	MarginalRate decimal.Decimal           `json:"marginalRate"`
	Breakdown    []calculation.SlabPortion `json:"breakdown"`
}

// Report carries whichever results a command produced. Nil sections are
// skipped by every formatter.
type Report struct {
	SlabTax    *SlabTaxResult                   `json:"slabTax,omitempty"`
	Comparison *domain.RegimeComparison         `json:"regimeComparison,omitempty"`
	Liability  *domain.LiabilityResult          `json:"liability,omitempty"`
	Strategy   *domain.StrategyReport           `json:"strategy,omitempty"`
	Narrative  string                           `json:"narrative,omitempty"`
	Extracted  []domain.ExtractedRecommendation `json:"aiRecommendations,omitempty"`
	Plan       *domain.TaxPlan                  `json:"plan,omitempty"`
	Scenarios  *compare.ComparisonSet           `json:"scenarios,omitempty"`
}

// only returns the single populated section, or nil when there are several
func (r *Report) only() any {
	var sections []any
	if r.SlabTax != nil {
		sections = append(sections, r.SlabTax)
	}
	if r.Comparison != nil {
		sections = append(sections, r.Comparison)
	}
	if r.Liability != nil {
		sections = append(sections, r.Liability)
	}
	if r.Strategy != nil {
		sections = append(sections, r.Strategy)
	}
	if r.Narrative != "" {
		sections = append(sections, r.Narrative)
	}
	if r.Extracted != nil {
		sections = append(sections, r.Extracted)
	}
	if r.Plan != nil {
		sections = append(sections, r.Plan)
	}
	if r.Scenarios != nil {
		sections = append(sections, r.Scenarios)
	}
	if len(sections) == 1 {
		return sections[0]
	}
	return nil
}

// Formatter renders a report
type Formatter interface {
	Name() string
	Format(r *Report) ([]byte, error)
}

// FormatterFunc adapts a function to Formatter
type FormatterFunc struct {
	ID string
	F  func(r *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(r *Report) ([]byte, error) { return f.F(r) }

var formatAliases = map[string]string{
	"text":    "console",
	"table":   "console",
	"console": "console",
	"json":    "json",
	"csv":     "csv",
}

// GetFormatterByName resolves a format name or alias. Unknown names return nil.
func GetFormatterByName(name string, m money.Formatter) Formatter {
	switch formatAliases[strings.ToLower(name)] {
	case "console":
		return ConsoleFormatter{Money: m}
	case "json":
		return JSONFormatter{Pretty: true}
	case "csv":
		return CSVFormatter{Money: m}
	default:
		return nil
	}
}

// AvailableFormatterNames lists the canonical formatter names
func AvailableFormatterNames() []string {
	return []string{"console", "csv", "json"}
}

// AvailableFormatAliases lists every accepted format name
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// WriteFormatted renders r and writes it to a timestamped file in the
// current directory, returning the file name.
func WriteFormatted(f Formatter, r *Report, ext string) (string, error) {
	data, err := f.Format(r)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("tax_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
