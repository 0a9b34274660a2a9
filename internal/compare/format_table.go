package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/taxpilot/internal/money"
	"github.com/shopspring/decimal"
)

var (
	lakh  = decimal.NewFromInt(100000)
	crore = decimal.NewFromInt(10000000)
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct {
	Money money.Formatter
}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder
	symbol := tf.Money.Symbol

	// Header
	sb.WriteString("TAX SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 22
	numWidth := 13

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Income",
		numWidth, "Liability",
		numWidth, "Eff. Rate",
		numWidth, "Best Regime"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	// Deltas from base
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))

			sb.WriteString(fmt.Sprintf("  Liability:        %s%s%s (%s%%)\n",
				tf.deltaSymbol(alt.TaxDiffFromBase),
				symbol,
				tf.formatDecimal(alt.TaxDiffFromBase.Abs()),
				alt.TaxPctFromBase.StringFixed(1)))

			if !alt.RegimeTaxDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Best-regime tax:  %s%s%s\n",
					tf.deltaSymbol(alt.RegimeTaxDiffFromBase),
					symbol,
					tf.formatDecimal(alt.RegimeTaxDiffFromBase.Abs())))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nHIGHLIGHTS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, tf.Money.Symbol+tf.formatDecimal(result.Profile.Income),
		numWidth, tf.Money.Symbol+tf.formatDecimal(result.Liability.TaxLiability),
		numWidth, result.Liability.EffectiveRate.StringFixed(1)+"%",
		numWidth, strings.TrimSuffix(result.Regime.Recommendation, " Regime"))
}

// formatDecimal abbreviates an amount in lakh (L) or crore (Cr)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(crore) {
		return d.Div(crore).StringFixed(2) + "Cr"
	} else if d.Abs().GreaterThanOrEqual(lakh) {
		return d.Div(lakh).StringFixed(2) + "L"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns a + for increases; negatives carry their own sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen runes
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// FormatCompact creates a single-line summary of liability changes
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if alt.TaxDiffFromBase.IsPositive() {
			change = fmt.Sprintf("+%s%s", tf.Money.Symbol, tf.formatDecimal(alt.TaxDiffFromBase))
		} else if alt.TaxDiffFromBase.IsNegative() {
			change = fmt.Sprintf("-%s%s", tf.Money.Symbol, tf.formatDecimal(alt.TaxDiffFromBase.Abs()))
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
