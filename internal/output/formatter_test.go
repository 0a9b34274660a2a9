package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/rgehrsitz/taxpilot/internal/calculation"
	"github.com/rgehrsitz/taxpilot/internal/compare"
	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/rgehrsitz/taxpilot/internal/extract"
	"github.com/rgehrsitz/taxpilot/internal/money"
	"github.com/rgehrsitz/taxpilot/internal/strategy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func testMoney() money.Formatter {
	return money.Formatter{Symbol: "$", Locale: language.English, Precision: 2, Mode: money.ModeRound}
}

func sampleProfile() domain.FinancialProfile {
	return domain.FinancialProfile{
		BusinessType:  "Technology",
		Income:        decimal.NewFromInt(10000000),
		Expenses:      decimal.NewFromInt(4000000),
		EmployeeCount: 40,
		Assets:        domain.Assets{Equipment: decimal.NewFromInt(300000)},
	}
}

func comparisonReport() *Report {
	rc := calculation.CompareRegimes(decimal.NewFromInt(1000000))
	return &Report{Comparison: &rc}
}

func TestFormatterFunc_Format(t *testing.T) {
	called := false
	var received *Report

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(r *Report) ([]byte, error) {
			called = true
			received = r
			return []byte("test output"), nil
		},
	}

	report := comparisonReport()
	out, err := formatter.Format(report)

	assert.NoError(t, err, "Should not error")
	assert.True(t, called, "Should call the function")
	assert.Equal(t, report, received, "Should pass the report")
	assert.Equal(t, []byte("test output"), out, "Should return the function output")
	assert.Equal(t, "test-formatter", formatter.Name(), "Should return the ID")
}

func TestWriteFormatted(t *testing.T) {
	t.Chdir(t.TempDir())

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(r *Report) ([]byte, error) {
			return []byte("test output content"), nil
		},
	}

	filename, err := WriteFormatted(formatter, comparisonReport(), "txt")

	assert.NoError(t, err, "Should not error")
	assert.Contains(t, filename, "tax_report_", "Should have correct prefix")
	assert.Contains(t, filename, ".txt", "Should have correct extension")

	content, err := os.ReadFile(filename)
	assert.NoError(t, err, "Should be able to read the file")
	assert.Equal(t, "test output content", string(content), "Should have correct content")
}

func TestWriteFormatted_FormatterError(t *testing.T) {
	formatter := FormatterFunc{
		ID: "error-formatter",
		F: func(r *Report) ([]byte, error) {
			return nil, fmt.Errorf("formatter error")
		},
	}

	filename, err := WriteFormatted(formatter, comparisonReport(), "txt")

	assert.Error(t, err, "Should error when formatter fails")
	assert.Empty(t, filename, "Should return empty filename on error")
	assert.Contains(t, err.Error(), "formatter error", "Should propagate formatter error")
}

func TestGetFormatterByName(t *testing.T) {
	for _, name := range AvailableFormatAliases() {
		f := GetFormatterByName(name, testMoney())
		require.NotNil(t, f, "Alias %s should resolve", name)
		assert.Contains(t, AvailableFormatterNames(), f.Name())
	}

	assert.Equal(t, "console", GetFormatterByName("TABLE", testMoney()).Name(), "Lookup is case-insensitive")
	assert.Nil(t, GetFormatterByName("html", testMoney()), "Unknown format should return nil")
}

func TestConsoleFormatter_Comparison(t *testing.T) {
	out, err := ConsoleFormatter{Money: testMoney()}.Format(comparisonReport())
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "REGIME COMPARISON")
	assert.Contains(t, content, "Income:            $1,000,000.00")
	assert.Contains(t, content, "Old Regime:        $112,500.00")
	assert.Contains(t, content, "New Regime:        $60,000.00")
	assert.Contains(t, content, "Recommended:       New Regime")
	assert.Contains(t, content, "Potential Savings: $52,500.00")
}

func TestConsoleFormatter_SlabTaxAndLiability(t *testing.T) {
	amount := decimal.NewFromInt(1500000)
	table := calculation.OldRegimeTable()
	liability := calculation.CalculateLiability(decimal.NewFromInt(100000), decimal.Zero, decimal.Zero)

	report := &Report{
		SlabTax: &SlabTaxResult{
			Table:        "old",
			Amount:       amount,
			Tax:          calculation.ComputeSlabTax(amount, table),
			MarginalRate: calculation.MarginalRate(amount, table),
			Breakdown:    calculation.ComputeSlabBreakdown(amount, table),
		},
		Liability: &liability,
	}

	out, err := ConsoleFormatter{Money: testMoney()}.Format(report)
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "SLAB TAX (old)")
	assert.Contains(t, content, "and above", "Amounts past the last bound reach the open slab")
	assert.Contains(t, content, "Marginal Rate:    30%")
	assert.Contains(t, content, "Total Tax:        $262,500.00")
	assert.Contains(t, content, "Tax Liability:    $30,000.00")
	assert.Contains(t, content, "Effective Rate:   30.00%")
}

func TestConsoleFormatter_Strategy(t *testing.T) {
	report := strategy.NewEngine().Generate(sampleProfile())

	out, err := ConsoleFormatter{Money: testMoney()}.Format(&Report{Strategy: &report, Narrative: "Narrative text"})
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "TAX SAVING STRATEGY")
	assert.Contains(t, content, strategy.CategoryInvestments)
	assert.Contains(t, content, "ELSS Investment [High]")
	assert.Contains(t, content, "Confidence Score:        85")
	assert.Contains(t, content, "Insights:")
	assert.Contains(t, content, "Narrative text\n")
}

func TestConsoleFormatter_PlanAndExtracted(t *testing.T) {
	recs := extract.Extract("")
	plan := &domain.TaxPlan{
		ID:                "plan-1",
		Profile:           sampleProfile(),
		RegimeComparison:  calculation.CompareRegimes(decimal.NewFromInt(500000)),
		Strategy:          strategy.NewEngine().Generate(sampleProfile()),
		AIRecommendations: recs,
	}

	out, err := ConsoleFormatter{Money: testMoney()}.Format(&Report{Plan: plan})
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "TAX PLAN plan-1")
	assert.Contains(t, content, "Business Type:     Technology")
	assert.Contains(t, content, "  equipment        $300,000.00")
	assert.Contains(t, content, "  cashAndBank      $0.00")
	assert.Contains(t, content, "  total            $300,000.00")
	assert.Contains(t, content, "REGIME COMPARISON")
	assert.Contains(t, content, "AI RECOMMENDATIONS")
	assert.Contains(t, content, "1. Tax Recommendation (High Priority)")
}

func TestConsoleFormatter_Scenarios(t *testing.T) {
	ce := compare.NewCompareEngine(nil)
	set, err := ce.Compare(t.Context(), []domain.NamedProfile{
		{Name: "A", Profile: domain.FinancialProfile{Income: decimal.NewFromInt(1000000)}},
		{Name: "B", Profile: domain.FinancialProfile{Income: decimal.NewFromInt(800000)}},
	}, compare.CompareOptions{BaseScenarioName: "A"})
	require.NoError(t, err)

	out, err := ConsoleFormatter{Money: testMoney()}.Format(&Report{Scenarios: set})
	require.NoError(t, err)
	assert.Contains(t, string(out), "TAX SCENARIO COMPARISON")
}

func TestJSONFormatter_SingleSection(t *testing.T) {
	out, err := JSONFormatter{}.Format(comparisonReport())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "New Regime", decoded["recommendation"], "Single section is encoded bare")
	assert.Equal(t, "52500", decoded["potentialSavings"], "Amounts keep full precision")

	oldRegime := decoded["oldRegime"].(map[string]any)
	assert.Equal(t, calculation.OldRegimeKey, oldRegime["regime"], "Results carry the regime key")
}

func TestJSONFormatter_MultipleSections(t *testing.T) {
	report := comparisonReport()
	s := strategy.NewEngine().Generate(sampleProfile())
	report.Strategy = &s

	out, err := JSONFormatter{Pretty: true}.Format(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Contains(t, decoded, "regimeComparison")
	assert.Contains(t, decoded, "strategy")
	assert.NotContains(t, decoded, "plan")

	strat := decoded["strategy"].(map[string]any)
	assert.Contains(t, strat, "aiConfidenceScore")
	assert.Contains(t, strat, "customInsights")
}

func TestCSVFormatter_Comparison(t *testing.T) {
	out, err := CSVFormatter{Money: testMoney()}.Format(comparisonReport())
	require.NoError(t, err)

	assert.Equal(t,
		"income,old_regime_tax,new_regime_tax,recommendation,potential_savings\n"+
			"1000000.00,112500.00,60000.00,New Regime,52500.00\n",
		string(out))
}

func TestCSVFormatter_MultipleSections(t *testing.T) {
	report := comparisonReport()
	report.Extracted = extract.Extract("")

	out, err := CSVFormatter{Money: testMoney()}.Format(report)
	require.NoError(t, err)

	tables := strings.Split(string(out), "\n\n")
	require.Len(t, tables, 2, "Sections are separated by a blank line")
	assert.True(t, strings.HasPrefix(tables[1], "title,description,impact\n"))
	assert.Len(t, strings.Split(strings.TrimSpace(tables[1]), "\n"), 4)
}

func TestCSVFormatter_SlabTax(t *testing.T) {
	amount := decimal.NewFromInt(400000)
	table := calculation.NewRegimeTable()
	report := &Report{SlabTax: &SlabTaxResult{
		Table:     "new",
		Amount:    amount,
		Tax:       calculation.ComputeSlabTax(amount, table),
		Breakdown: calculation.ComputeSlabBreakdown(amount, table),
	}}

	out, err := CSVFormatter{Money: testMoney()}.Format(report)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	assert.Equal(t, "lower,upper,rate,taxed,tax", lines[0])
	assert.Equal(t, "total,,,400000.00,5000.00", lines[len(lines)-1])
}
