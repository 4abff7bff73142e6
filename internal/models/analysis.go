package models

// Category is the model's overall verdict on a product.
type Category string

const (
	CategoryHarmful    Category = "Harmful"
	CategoryNeutral    Category = "Neutral"
	CategoryBeneficial Category = "Beneficial"
)

// ValidCategory reports whether c is one of the three contracted verdicts.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryHarmful, CategoryNeutral, CategoryBeneficial:
		return true
	}
	return false
}

// AnalysisResult is the verdict for one ProductRecord+UserProfile pair.
// Scores and category are accepted as delivered by the model; beyond the
// schema contract there is no independent range validation here.
type AnalysisResult struct {
	HealthScore           float64  `json:"health_score"`         // 0-100
	Category              Category `json:"category"`             // Harmful, Neutral, Beneficial
	SustainabilityScore   float64  `json:"sustainability_score"` // 0-100
	Allergens             []string `json:"allergens"`
	Summary               string   `json:"summary"`
	HealthierAlternatives []string `json:"healthier_alternatives"`
}
