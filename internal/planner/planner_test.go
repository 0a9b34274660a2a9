package planner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rgehrsitz/taxpilot/internal/calculation"
	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/rgehrsitz/taxpilot/internal/extract"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelText = `Here are some recommendations:

- Invest up to 1.5 lakh in ELSS funds to claim the full Section 80C deduction every year.
- Contribute an additional 50,000 to NPS to use the Section 80CCD(1B) deduction available to you.
- Claim depreciation on all eligible business equipment and computers to lower your taxable profit.`

func sampleProfile() domain.FinancialProfile {
	return domain.FinancialProfile{
		BusinessType:  "Technology",
		Income:        decimal.NewFromInt(10000000),
		Expenses:      decimal.NewFromInt(4000000),
		Deductions:    decimal.NewFromInt(500000),
		EmployeeCount: 40,
		Assets: domain.Assets{
			Property:    decimal.NewFromInt(5000000),
			Equipment:   decimal.NewFromInt(300000),
			Inventory:   decimal.NewFromInt(200000),
			CashAndBank: decimal.NewFromInt(1500000),
			Investments: decimal.NewFromInt(1000000),
		},
	}
}

func TestNewPlanner(t *testing.T) {
	p := NewPlanner()
	assert.NotNil(t, p, "Should create planner")
	assert.NotNil(t, p.Analyzer)
	assert.NotNil(t, p.Extractor)
}

func TestPlanner_Build(t *testing.T) {
	p := NewPlanner()

	plan, err := p.Build(context.Background(), sampleProfile(), StaticTextSource{Text: modelText})
	require.NoError(t, err)
	require.NotNil(t, plan)

	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, calculation.NewRegimeLabel, plan.RegimeComparison.Recommendation)
	assert.True(t, plan.RegimeComparison.Income.Equal(decimal.NewFromInt(10000000)))
	assert.Len(t, plan.Strategy.Recommendations, 2)
	assert.Len(t, plan.AIRecommendations, 3)
	assert.Equal(t, extract.RecommendationTitle, plan.AIRecommendations[0].Title)
	assert.Contains(t, plan.AIRecommendations[0].Description, "ELSS")
}

func TestPlanner_Build_Deterministic(t *testing.T) {
	p := NewPlanner()
	src := StaticTextSource{Text: modelText}

	a, err := p.Build(context.Background(), sampleProfile(), src)
	require.NoError(t, err)
	b, err := p.Build(context.Background(), sampleProfile(), src)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID, "Same profile should give the same plan ID")
	assert.Equal(t, a.AIRecommendations, b.AIRecommendations)
	assert.True(t, a.Strategy.TotalPotentialSavings.Equal(b.Strategy.TotalPotentialSavings))
}

func TestPlanner_Build_SourceFailure(t *testing.T) {
	boom := errors.New("model unavailable")
	src := TextSourceFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", boom
	})

	plan, err := NewPlanner().Build(context.Background(), sampleProfile(), src)

	assert.Nil(t, plan, "Should not return a partial plan")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "plan generation failed")
}

func TestPlanner_Build_Timeout(t *testing.T) {
	src := TextSourceFunc(func(ctx context.Context, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	plan, err := NewPlanner().Build(ctx, sampleProfile(), src)

	assert.Nil(t, plan)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPlanner_Build_NoSource(t *testing.T) {
	_, err := NewPlanner().Build(context.Background(), sampleProfile(), nil)
	assert.ErrorIs(t, err, ErrNoTextSource)
}

func TestPlanner_Build_PassesPrompt(t *testing.T) {
	var got string
	src := TextSourceFunc(func(ctx context.Context, prompt string) (string, error) {
		got = prompt
		return "", nil
	})

	plan, err := NewPlanner().Build(context.Background(), sampleProfile(), src)
	require.NoError(t, err)

	assert.Contains(t, got, "a Technology business")
	assert.Contains(t, got, "Annual income: 10000000")
	assert.Len(t, plan.AIRecommendations, 3, "Empty text falls back to canned statements")
}

func TestFileTextSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.txt")
	require.NoError(t, os.WriteFile(path, []byte(modelText), 0644))

	text, err := FileTextSource{Path: path}.FetchText(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, modelText, text)

	_, err = FileTextSource{Path: filepath.Join(t.TempDir(), "missing.txt")}.FetchText(context.Background(), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read model output")
}

func TestStaticTextSource_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := StaticTextSource{Text: "x"}.FetchText(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrompt_Individual(t *testing.T) {
	prompt, err := Prompt(domain.FinancialProfile{Income: decimal.NewFromInt(500000)})
	require.NoError(t, err)
	assert.Contains(t, prompt, "an individual")
	assert.Contains(t, prompt, "Total assets: 0")
}
