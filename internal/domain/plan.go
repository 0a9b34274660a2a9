package domain

// TaxPlan bundles the three independently computed views of a profile.
// It is only assembled when all three succeed.
type TaxPlan struct {
	ID                string                    `json:"id"`
	Profile           FinancialProfile          `json:"profile"`
	RegimeComparison  RegimeComparison          `json:"regimeComparison"`
	Strategy          StrategyReport            `json:"strategy"`
	AIRecommendations []ExtractedRecommendation `json:"aiRecommendations"`
}
