package compare

import (
	"encoding/csv"
	"strings"

	"github.com/rgehrsitz/taxpilot/internal/money"
)

// CSVFormatter formats comparison results as CSV. Amounts are plain numbers
// at the formatter's precision, without grouping or symbol.
type CSVFormatter struct {
	Money money.Formatter
}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Income",
		"Taxable Income",
		"Tax Liability",
		"Effective Rate",
		"Old Regime Tax",
		"New Regime Tax",
		"Recommended Regime",
		"Regime Savings",
		"Tax Diff from Base",
		"Tax % Change",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for i, result := range compSet.All() {
		kind := "alternative"
		if i == 0 && compSet.BaseResult != nil {
			kind = "base"
		}
		if err := writer.Write(cf.formatRow(&result, kind)); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	n := cf.Money.Plain
	return []string{
		result.ScenarioName,
		scenarioType,
		n(result.Profile.Income),
		n(result.Liability.TaxableIncome),
		n(result.Liability.TaxLiability),
		n(result.Liability.EffectiveRate),
		n(result.Regime.OldRegime.TotalTax),
		n(result.Regime.NewRegime.TotalTax),
		result.Regime.Recommendation,
		n(result.Regime.PotentialSavings),
		n(result.TaxDiffFromBase),
		n(result.TaxPctFromBase),
	}
}
