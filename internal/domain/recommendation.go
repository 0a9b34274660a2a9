package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Impact grades how much a recommendation matters
type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
	ImpactLow    Impact = "Low"
)

// ParseImpact accepts any casing of High, Medium or Low
func ParseImpact(s string) (Impact, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return ImpactHigh, nil
	case "medium":
		return ImpactMedium, nil
	case "low":
		return ImpactLow, nil
	default:
		return "", fmt.Errorf("unknown impact %q (valid: High, Medium, Low)", s)
	}
}

// Rank orders impacts from Low (1) to High (3); unknown values rank 0
func (i Impact) Rank() int {
	switch i {
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	case ImpactLow:
		return 1
	default:
		return 0
	}
}

// Recommendation is a single savings action with its attributed benefit
type Recommendation struct {
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Impact           Impact          `json:"impact"`
	PotentialSavings decimal.Decimal `json:"potentialSavings"`
}

// RecommendationCategory groups recommendations under a heading
type RecommendationCategory struct {
	Category string           `json:"category"`
	Items    []Recommendation `json:"items"`
}

// Insight is a qualitative observation with a fixed confidence
type Insight struct {
	Title      string `json:"title"`
	Insight    string `json:"insight"`
	Confidence int    `json:"confidence"`
}

// StrategyReport is the output of the rule-based strategy engine
type StrategyReport struct {
	Recommendations       []RecommendationCategory `json:"recommendations"`
	TotalPotentialSavings decimal.Decimal          `json:"totalPotentialSavings"`
	ConfidenceScore       int                      `json:"aiConfidenceScore"`
	Insights              []Insight                `json:"customInsights"`
}

// Items returns every recommendation across all categories, in order
func (r StrategyReport) Items() []Recommendation {
	var items []Recommendation
	for _, c := range r.Recommendations {
		items = append(items, c.Items...)
	}
	return items
}

// ExtractedRecommendation is produced from free-form model text
type ExtractedRecommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}
