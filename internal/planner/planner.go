// Package planner assembles a complete tax plan from the regime
// comparison, the rule-based strategy and recommendations extracted from
// model text. The three parts run concurrently and the plan exists only
// if all of them succeed.
package planner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"

	"github.com/rgehrsitz/taxpilot/internal/cache"
	"github.com/rgehrsitz/taxpilot/internal/calculation"
	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/rgehrsitz/taxpilot/internal/extract"
	"github.com/rgehrsitz/taxpilot/internal/strategy"
	"golang.org/x/sync/errgroup"
)

// ErrNoTextSource is returned when Build is called without a text source
var ErrNoTextSource = errors.New("no text source configured")

// Analyzer produces the regime comparison and strategy report for a profile
type Analyzer interface {
	Compare(ctx context.Context, profile domain.FinancialProfile) domain.RegimeComparison
	Generate(ctx context.Context, profile domain.FinancialProfile) domain.StrategyReport
}

var promptTemplate = template.Must(template.New("prompt").Parse(`Generate tax optimization recommendations for {{.Subject}} with:
- Annual income: {{.Income}}
- Business expenses: {{.Expenses}}
- Deductions claimed: {{.Deductions}}
- Employees: {{.EmployeeCount}}
- Total assets: {{.Assets}}
Focus on Indian tax laws and provide practical, actionable suggestions.
Format the response as a list of bullet points, with each point being a separate recommendation.
`))

// Planner builds tax plans
type Planner struct {
	Analyzer  Analyzer
	Extractor *extract.Extractor
	Logger    calculation.Logger
}

// NewPlanner creates a planner over the built-in tables and default rules
// with no result cache.
func NewPlanner() *Planner {
	return NewPlannerWithAnalyzer(cache.NewCachedComparator(nil, calculation.NewCalculationEngine(), strategy.NewEngine()))
}

// NewPlannerWithAnalyzer creates a planner using the given analyzer
func NewPlannerWithAnalyzer(a Analyzer) *Planner {
	return &Planner{
		Analyzer:  a,
		Extractor: extract.New(),
		Logger:    calculation.NopLogger{},
	}
}

// SetLogger sets the logger; nil installs a no-op logger
func (p *Planner) SetLogger(l calculation.Logger) {
	p.Logger = calculation.OrNop(l)
}

// Prompt renders the model prompt for profile
func Prompt(profile domain.FinancialProfile) (string, error) {
	subject := "an individual"
	if profile.BusinessType != "" {
		subject = "a " + profile.BusinessType + " business"
	}
	var buf bytes.Buffer
	err := promptTemplate.Execute(&buf, map[string]any{
		"Subject":       subject,
		"Income":        profile.Income.String(),
		"Expenses":      profile.Expenses.String(),
		"Deductions":    profile.Deductions.String(),
		"EmployeeCount": profile.EmployeeCount,
		"Assets":        profile.Assets.Total().String(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}

// Build computes the three parts of the plan concurrently. The first
// failure cancels the remaining work and no partial plan is returned.
func (p *Planner) Build(ctx context.Context, profile domain.FinancialProfile, source TextSource) (*domain.TaxPlan, error) {
	if source == nil {
		return nil, ErrNoTextSource
	}

	id, err := profile.ID()
	if err != nil {
		return nil, err
	}
	prompt, err := Prompt(profile)
	if err != nil {
		return nil, err
	}

	plan := &domain.TaxPlan{ID: id.String(), Profile: profile}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		plan.RegimeComparison = p.Analyzer.Compare(gctx, profile)
		return gctx.Err()
	})

	g.Go(func() error {
		plan.Strategy = p.Analyzer.Generate(gctx, profile)
		return gctx.Err()
	})

	g.Go(func() error {
		text, err := source.FetchText(gctx, prompt)
		if err != nil {
			return fmt.Errorf("failed to fetch model output: %w", err)
		}
		plan.AIRecommendations = p.Extractor.Extract(text)
		return nil
	})

	if err := g.Wait(); err != nil {
		p.Logger.Errorf("plan %s failed: %v", plan.ID, err)
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}

	p.Logger.Infof("plan %s built: recommend=%s savings=%s ai=%d", plan.ID,
		plan.RegimeComparison.Recommendation, plan.Strategy.TotalPotentialSavings, len(plan.AIRecommendations))
	return plan, nil
}
