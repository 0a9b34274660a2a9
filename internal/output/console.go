package output

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/taxpilot/internal/calculation"
	"github.com/rgehrsitz/taxpilot/internal/compare"
	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/rgehrsitz/taxpilot/internal/money"
)

// ConsoleFormatter renders a human-readable report
type ConsoleFormatter struct {
	Money money.Formatter
}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	var b strings.Builder

	if r.Plan != nil {
		fmt.Fprintf(&b, "TAX PLAN %s\n", r.Plan.ID)
		b.WriteString(strings.Repeat("=", 60) + "\n\n")
		c.writeProfile(&b, &r.Plan.Profile)
		c.writeComparison(&b, &r.Plan.RegimeComparison)
		c.writeStrategy(&b, &r.Plan.Strategy)
		c.writeExtracted(&b, r.Plan.AIRecommendations)
	}
	if r.SlabTax != nil {
		c.writeSlabTax(&b, r.SlabTax)
	}
	if r.Comparison != nil {
		c.writeComparison(&b, r.Comparison)
	}
	if r.Liability != nil {
		c.writeLiability(&b, r.Liability)
	}
	if r.Strategy != nil {
		c.writeStrategy(&b, r.Strategy)
	}
	if r.Narrative != "" {
		b.WriteString(r.Narrative)
		if !strings.HasSuffix(r.Narrative, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if r.Extracted != nil {
		c.writeExtracted(&b, r.Extracted)
	}
	if r.Scenarios != nil {
		tf := compare.TableFormatter{Money: c.Money}
		b.WriteString(tf.Format(r.Scenarios))
	}

	return []byte(b.String()), nil
}

func (c ConsoleFormatter) writeProfile(b *strings.Builder, p *domain.FinancialProfile) {
	b.WriteString("PROFILE\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	if p.BusinessType != "" {
		fmt.Fprintf(b, "Business Type:     %s\n", p.BusinessType)
	}
	fmt.Fprintf(b, "Income:            %s\n", c.Money.Currency(p.Income))
	fmt.Fprintf(b, "Expenses:          %s\n", c.Money.Currency(p.Expenses))
	fmt.Fprintf(b, "Deductions:        %s\n", c.Money.Currency(p.Deductions))
	fmt.Fprintf(b, "Employees:         %d\n", p.EmployeeCount)
	b.WriteString("Assets:\n")
	for _, a := range p.Assets.ByCategory() {
		fmt.Fprintf(b, "  %-16s %s\n", a.Category, c.Money.Currency(a.Value))
	}
	fmt.Fprintf(b, "  %-16s %s\n\n", "total", c.Money.Currency(p.Assets.Total()))
}

func (c ConsoleFormatter) writeSlabTax(b *strings.Builder, s *SlabTaxResult) {
	fmt.Fprintf(b, "SLAB TAX (%s)\n", s.Table)
	b.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(b, "%-14s %-14s %6s %12s %12s\n", "From", "To", "Rate", "Taxed", "Tax")
	for _, p := range s.Breakdown {
		upper := "and above"
		if p.Upper != nil {
			upper = c.Money.Number(*p.Upper)
		}
		fmt.Fprintf(b, "%-14s %-14s %6s %12s %12s\n",
			c.Money.Number(p.Lower), upper, p.Rate.Shift(2).StringFixed(0)+"%",
			c.Money.Number(p.Amount), c.Money.Number(p.Tax))
	}
	fmt.Fprintf(b, "Amount:           %s\n", c.Money.Currency(s.Amount))
	fmt.Fprintf(b, "Marginal Rate:    %s%%\n", s.MarginalRate.Shift(2).String())
	fmt.Fprintf(b, "Total Tax:        %s\n\n", c.Money.Currency(s.Tax))
}

func (c ConsoleFormatter) writeComparison(b *strings.Builder, rc *domain.RegimeComparison) {
	b.WriteString("REGIME COMPARISON\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(b, "Income:            %s\n", c.Money.Currency(rc.Income))
	fmt.Fprintf(b, "%-18s %s\n", calculation.RegimeLabel(rc.OldRegime.Regime)+":", c.Money.Currency(rc.OldRegime.TotalTax))
	fmt.Fprintf(b, "%-18s %s\n", calculation.RegimeLabel(rc.NewRegime.Regime)+":", c.Money.Currency(rc.NewRegime.TotalTax))
	fmt.Fprintf(b, "Recommended:       %s\n", rc.Recommendation)
	fmt.Fprintf(b, "Potential Savings: %s\n\n", c.Money.Currency(rc.PotentialSavings))
}

func (c ConsoleFormatter) writeLiability(b *strings.Builder, l *domain.LiabilityResult) {
	b.WriteString("TAX LIABILITY\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(b, "Taxable Income:   %s\n", c.Money.Currency(l.TaxableIncome))
	fmt.Fprintf(b, "Tax Liability:    %s\n", c.Money.Currency(l.TaxLiability))
	fmt.Fprintf(b, "Effective Rate:   %s\n\n", c.Money.Percent(l.EffectiveRate))
}

func (c ConsoleFormatter) writeStrategy(b *strings.Builder, s *domain.StrategyReport) {
	b.WriteString("TAX SAVING STRATEGY\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	for _, cat := range s.Recommendations {
		fmt.Fprintf(b, "%s\n", cat.Category)
		for _, item := range cat.Items {
			fmt.Fprintf(b, "  • %s [%s] %s\n", item.Title, item.Impact, c.Money.Currency(item.PotentialSavings))
			fmt.Fprintf(b, "    %s\n", item.Description)
		}
	}
	fmt.Fprintf(b, "Total Potential Savings: %s\n", c.Money.Currency(s.TotalPotentialSavings))
	fmt.Fprintf(b, "Confidence Score:        %d\n", s.ConfidenceScore)
	if len(s.Insights) > 0 {
		b.WriteString("Insights:\n")
		for _, in := range s.Insights {
			fmt.Fprintf(b, "  • %s (%d%%): %s\n", in.Title, in.Confidence, in.Insight)
		}
	}
	b.WriteString("\n")
}

func (c ConsoleFormatter) writeExtracted(b *strings.Builder, recs []domain.ExtractedRecommendation) {
	b.WriteString("AI RECOMMENDATIONS\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	for i, rec := range recs {
		fmt.Fprintf(b, "%d. %s (%s)\n   %s\n", i+1, rec.Title, rec.Impact, rec.Description)
	}
	b.WriteString("\n")
}
