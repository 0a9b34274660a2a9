package strategy

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/shopspring/decimal"
)

var narrativeTemplate = template.Must(template.New("narrative").Parse(`Tax Saving Recommendations for {{.BusinessType}}:

1. Section 80C Investments (Max {{.Section80CCap}})
   - EPF Contribution: {{.EPF}}
   - ELSS Mutual Funds: {{.ELSSFixed}}
   - Term Insurance: {{.TermInsurance}}

2. Health Insurance (Section 80D)
   - Company Group Insurance: {{.GroupInsurance}}
   - Individual Policy: {{.IndividualPolicy}}

3. NPS Investment (Section 80CCD)
   - Recommended: {{.NPS}}
   - Additional Tax Benefit: {{.NPSAdditional}}

4. Business Deductions
   - Depreciation on Assets: {{.Depreciation}}
   - Office Rent: {{.OfficeRent}}
   - Employee Benefits: {{.EmployeeBenefits}}

Potential Annual Tax Savings: {{.Headline}}
`))

// Narrative renders a plain-text strategy summary for profile
func (e *Engine) Narrative(profile domain.FinancialProfile) (string, error) {
	n := e.Rules.Narrative
	cur := e.Amounts.Currency

	employees := profile.EmployeeCount
	if employees < 0 {
		employees = 0
	}
	businessType := profile.BusinessType
	if businessType == "" {
		businessType = "your business"
	}

	data := map[string]string{
		"BusinessType":     businessType,
		"Section80CCap":    cur(n.Section80CCap),
		"EPF":              cur(decimal.Min(profile.Income.Mul(n.EPFIncomeFraction), n.Section80CCap)),
		"ELSSFixed":        cur(decimal.NewFromInt(50000)),
		"TermInsurance":    cur(decimal.NewFromInt(25000)),
		"GroupInsurance":   cur(decimal.NewFromInt(25000)),
		"IndividualPolicy": cur(decimal.NewFromInt(50000)),
		"NPS":              cur(decimal.Min(profile.Income.Mul(n.NPSIncomeFraction), n.NPSCap)),
		"NPSAdditional":    cur(n.NPSCap),
		"Depreciation":     cur(nonNegative(profile.Assets.Equipment).Mul(e.Rules.DepreciationRate).Round(0)),
		"OfficeRent":       cur(nonNegative(profile.Expenses).Mul(n.OfficeRentFraction).Round(0)),
		"EmployeeBenefits": cur(decimal.NewFromInt(int64(employees)).Mul(n.BenefitPerEmployee)),
		"Headline":         cur(profile.Income.Mul(n.HeadlineSavingsFraction).Round(0)),
	}

	var buf bytes.Buffer
	if err := narrativeTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render strategy narrative: %w", err)
	}
	return buf.String(), nil
}
