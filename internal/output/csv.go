package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rgehrsitz/taxpilot/internal/compare"
	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/rgehrsitz/taxpilot/internal/money"
)

// CSVFormatter writes one CSV table per populated section, separated by a
// blank line. Amounts are plain numbers at the money formatter's precision.
type CSVFormatter struct {
	Money money.Formatter
}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(r *Report) ([]byte, error) {
	var tables [][][]string

	if r.Plan != nil {
		tables = append(tables,
			[][]string{{"id"}, {r.Plan.ID}},
			c.comparisonRows(&r.Plan.RegimeComparison),
			c.strategyRows(&r.Plan.Strategy),
			c.extractedRows(r.Plan.AIRecommendations))
	}
	if r.SlabTax != nil {
		tables = append(tables, c.slabRows(r.SlabTax))
	}
	if r.Comparison != nil {
		tables = append(tables, c.comparisonRows(r.Comparison))
	}
	if r.Liability != nil {
		tables = append(tables, [][]string{
			{"taxable_income", "tax_liability", "effective_rate"},
			{c.Money.Plain(r.Liability.TaxableIncome), c.Money.Plain(r.Liability.TaxLiability), c.Money.Plain(r.Liability.EffectiveRate)},
		})
	}
	if r.Strategy != nil {
		tables = append(tables, c.strategyRows(r.Strategy))
	}
	if r.Extracted != nil {
		tables = append(tables, c.extractedRows(r.Extracted))
	}

	buf := &bytes.Buffer{}
	for i, rows := range tables {
		if i > 0 {
			buf.WriteString("\n")
		}
		w := csv.NewWriter(buf)
		if err := w.WriteAll(rows); err != nil {
			return nil, err
		}
	}

	if r.Scenarios != nil {
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		cf := compare.CSVFormatter{Money: c.Money}
		s, err := cf.Format(r.Scenarios)
		if err != nil {
			return nil, err
		}
		buf.WriteString(s)
	}

	return buf.Bytes(), nil
}

func (c CSVFormatter) slabRows(s *SlabTaxResult) [][]string {
	rows := [][]string{{"lower", "upper", "rate", "taxed", "tax"}}
	for _, p := range s.Breakdown {
		upper := ""
		if p.Upper != nil {
			upper = c.Money.Plain(*p.Upper)
		}
		rows = append(rows, []string{c.Money.Plain(p.Lower), upper, p.Rate.String(), c.Money.Plain(p.Amount), c.Money.Plain(p.Tax)})
	}
	return append(rows, []string{"total", "", "", c.Money.Plain(s.Amount), c.Money.Plain(s.Tax)})
}

func (c CSVFormatter) comparisonRows(rc *domain.RegimeComparison) [][]string {
	return [][]string{
		{"income", "old_regime_tax", "new_regime_tax", "recommendation", "potential_savings"},
		{
			c.Money.Plain(rc.Income),
			c.Money.Plain(rc.OldRegime.TotalTax),
			c.Money.Plain(rc.NewRegime.TotalTax),
			rc.Recommendation,
			c.Money.Plain(rc.PotentialSavings),
		},
	}
}

func (c CSVFormatter) strategyRows(s *domain.StrategyReport) [][]string {
	rows := [][]string{{"category", "title", "impact", "potential_savings"}}
	for _, cat := range s.Recommendations {
		for _, item := range cat.Items {
			rows = append(rows, []string{cat.Category, item.Title, string(item.Impact), c.Money.Plain(item.PotentialSavings)})
		}
	}
	return append(rows, []string{"total", "", "", c.Money.Plain(s.TotalPotentialSavings)})
}

func (c CSVFormatter) extractedRows(recs []domain.ExtractedRecommendation) [][]string {
	rows := [][]string{{"title", "description", "impact"}}
	for _, rec := range recs {
		rows = append(rows, []string{rec.Title, rec.Description, rec.Impact})
	}
	return rows
}
