package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileYAML = `
profile:
  business_type: Technology
  income: 10000000
  expenses: 4000000
  deductions: 500000
  employee_count: 40
  assets:
    property: 5000000
    equipment: 300000
    inventory: 200000
    cash_and_bank: 1500000
    investments: 1000000
scenarios:
  - name: Base
    profile:
      income: 1000000
      expenses: 200000
      deductions: 100000
  - name: Lean
    profile:
      income: 1000000
      expenses: 400000
      deductions: 100000
`

const modelOutput = `Here are some ideas:

- Invest up to 1.5 lakh in ELSS funds to claim the full Section 80C deduction every year.
- Contribute an additional 50,000 to NPS to use the Section 80CCD(1B) deduction available to you.
- Claim depreciation on all eligible business equipment and computers to lower your taxable profit.`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// run executes a fresh root command and returns stdout and stderr
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()

	assert.Equal(t, "taxpilot", cmd.Use, "Root command use should be taxpilot")
	assert.NotEmpty(t, cmd.Short, "Root command should have a short description")
	assert.NotEmpty(t, cmd.Long, "Root command should have a long description")
}

func TestRootCommand_Help(t *testing.T) {
	out, _, err := run(t, "", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "compare-regimes")
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{
		"compare-regimes", "slab-tax", "liability", "strategy",
		"extract", "plan", "scenarios", "validate", "version",
	}

	registered := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		registered[c.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, registered[name], "Expected %s command to be registered", name)
	}
}

func TestCompareRegimesCommand(t *testing.T) {
	out, _, err := run(t, "", "compare-regimes", "--income", "1000000")
	require.NoError(t, err)

	assert.Contains(t, out, "REGIME COMPARISON")
	assert.Contains(t, out, "Recommended:       New Regime")
	assert.Contains(t, out, "₹", "Default formatter uses the rupee symbol")

	out, _, err = run(t, "", "compare-regimes", "--income", "1000000", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "1000000.00,112500.00,60000.00,New Regime,52500.00")
}

func TestCompareRegimesCommand_JSON(t *testing.T) {
	out, _, err := run(t, "", "compare-regimes", "--income", "250000", "--format", "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "New Regime", decoded["recommendation"], "Ties go to the new regime")
	assert.Equal(t, "0", decoded["potentialSavings"])
}

func TestCompareRegimesCommand_Errors(t *testing.T) {
	_, _, err := run(t, "", "compare-regimes")
	assert.Error(t, err, "Income is required")

	_, _, err = run(t, "", "compare-regimes", "--income", "lots")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --income")

	_, _, err = run(t, "", "compare-regimes", "--income", "1", "--format", "html")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestSlabTaxCommand(t *testing.T) {
	out, _, err := run(t, "", "slab-tax", "--amount", "2500000", "--table", "fy2025", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "total,,,2500000.00,330000.00", lines[len(lines)-1])

	out, _, err = run(t, "", "slab-tax", "--amount", "2575000", "--table", "fy2025", "--standard-deduction", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "total,,,2500000.00,330000.00", "Standard deduction is applied first")

	_, _, err = run(t, "", "slab-tax", "--amount", "1", "--table", "nope")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown slab table")
}

func TestLiabilityCommand(t *testing.T) {
	out, _, err := run(t, "", "liability", "--income", "1000000", "--expenses", "200000", "--deductions", "100000", "--format", "csv")
	require.NoError(t, err)

	assert.Equal(t, "taxable_income,tax_liability,effective_rate\n700000.00,270000.00,27.00\n", out)
}

func TestLiabilityCommand_Precision(t *testing.T) {
	out, _, err := run(t, "", "liability", "--income", "300000", "--precision", "0", "--format", "csv")
	require.NoError(t, err)

	// 10,000 + 40% of 250,000 = 110,000; 36.666...% effective
	assert.Contains(t, out, "300000,110000,37")

	out, _, err = run(t, "", "liability", "--income", "300000", "--precision", "0", "--truncate", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "300000,110000,36")

	out, _, err = run(t, "", "liability", "--income", "300000", "--precision", "0", "--rounding", "truncate", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "300000,110000,36\n")

	out, _, err = run(t, "", "liability", "--income", "300000", "--rounding", "exact", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "300000,110000,36.6666", "Exact mode keeps every computed digit")

	_, _, err = run(t, "", "liability", "--income", "300000", "--rounding", "ceil")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --rounding")
}

func TestSlabTaxCommand_Console(t *testing.T) {
	out, _, err := run(t, "", "slab-tax", "--amount", "2500000", "--table", "fy2025")
	require.NoError(t, err)

	assert.Contains(t, out, "SLAB TAX (fy2025)")
	assert.Contains(t, out, "and above")
	assert.Contains(t, out, "Marginal Rate:    30%")
}

func TestStrategyCommand(t *testing.T) {
	path := writeTemp(t, "profile.yaml", profileYAML)

	out, _, err := run(t, "", "strategy", path, "--narrative")
	require.NoError(t, err)

	assert.Contains(t, out, "TAX SAVING STRATEGY")
	assert.Contains(t, out, "ELSS Investment")
	assert.Contains(t, out, "Tax Saving Recommendations for Technology")
}

func TestStrategyCommand_JSON(t *testing.T) {
	path := writeTemp(t, "profile.yaml", profileYAML)

	out, _, err := run(t, "", "strategy", path, "--format", "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, float64(85), decoded["aiConfidenceScore"])
}

func TestStrategyCommand_MinImpact(t *testing.T) {
	path := writeTemp(t, "profile.yaml", profileYAML)

	out, _, err := run(t, "", "strategy", path, "--min-impact", "HIGH", "--format", "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "90000", decoded["totalPotentialSavings"], "ELSS and depreciation only")
	assert.NotContains(t, out, "NPS Contribution")

	_, _, err = run(t, "", "strategy", path, "--min-impact", "urgent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --min-impact")
}

func TestStrategyCommand_StrictRejectsNegative(t *testing.T) {
	path := writeTemp(t, "profile.yaml", "profile:\n  income: -1\n")

	_, _, err := run(t, "", "strategy", path, "--strict")
	assert.Error(t, err)

	_, stderr, err := run(t, "", "strategy", path)
	require.NoError(t, err, "Lenient mode clamps")
	assert.Contains(t, stderr, "clamped to 0")
}

func TestExtractCommand(t *testing.T) {
	out, _, err := run(t, modelOutput, "extract", "-", "--format", "json")
	require.NoError(t, err)

	var decoded []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "Tax Recommendation", decoded[0]["title"])
	assert.Equal(t, "High Priority", decoded[0]["impact"])

	path := writeTemp(t, "model.txt", modelOutput)
	out, _, err = run(t, "", "extract", path)
	require.NoError(t, err)
	assert.Contains(t, out, "AI RECOMMENDATIONS")

	_, _, err = run(t, "", "extract", "--min", "6", "--max", "5")
	assert.Error(t, err, "Invalid extractor bounds")

	out, _, err = run(t, "", "extract", "--fallback", "Keep every receipt.", "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "Keep every receipt."), "Empty input is padded with the custom fallback")
}

func TestPlanCommand(t *testing.T) {
	profile := writeTemp(t, "profile.yaml", profileYAML)
	model := writeTemp(t, "model.txt", modelOutput)

	out, _, err := run(t, "", "plan", profile, "--model-output", model, "--format", "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.NotEmpty(t, decoded["id"])
	assert.Contains(t, decoded, "regimeComparison")
	assert.Contains(t, decoded, "strategy")
	assert.Len(t, decoded["aiRecommendations"], 3)

	again, _, err := run(t, "", "plan", profile, "--model-output", model, "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, out, again, "Plans are deterministic")
}

func TestPlanCommand_MissingModelOutput(t *testing.T) {
	profile := writeTemp(t, "profile.yaml", profileYAML)

	_, _, err := run(t, "", "plan", profile, "--model-output", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "plan generation failed")
}

func TestPlanCommand_UnreachableRedis(t *testing.T) {
	profile := writeTemp(t, "profile.yaml", profileYAML)

	out, stderr, err := run(t, modelOutput, "plan", profile, "--model-output", "-", "--redis-addr", "127.0.0.1:1")
	require.NoError(t, err, "Cache outage must not fail the plan")
	assert.Contains(t, out, "TAX PLAN")
	assert.Contains(t, stderr, "using in-memory cache")
}

func TestScenariosCommand(t *testing.T) {
	path := writeTemp(t, "profile.yaml", profileYAML)

	out, _, err := run(t, "", "scenarios", path, "--base", "Base")
	require.NoError(t, err)
	assert.Contains(t, out, "TAX SCENARIO COMPARISON")
	assert.Contains(t, out, "Lean")

	_, _, err = run(t, "", "scenarios", path, "--base", "Missing")
	assert.Error(t, err)

	empty := writeTemp(t, "empty.yaml", "profile:\n  income: 1\n")
	_, _, err = run(t, "", "scenarios", empty)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no scenarios")
}

func TestValidateCommand(t *testing.T) {
	path := writeTemp(t, "profile.yaml", profileYAML)

	out, _, err := run(t, "", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid (2 scenarios)")

	bad := writeTemp(t, "bad.yaml", "profile: [")
	_, _, err = run(t, "", "validate", bad)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "taxpilot dev")
}
