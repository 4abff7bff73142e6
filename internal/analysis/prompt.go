package analysis

import (
	"fmt"
	"strings"

	"github.com/snacksense/backend/internal/models"
)

// BuildPrompt renders the analysis prompt for a product and optional profile.
// Without a profile the model is told to assume a generic adult, so the
// framing is always explicit rather than omitted.
func BuildPrompt(product *models.ProductRecord, profile *models.UserProfile) string {
	var b strings.Builder

	b.WriteString("Analyze this food product as a strict, health-conscious nutritionist.\n\n")
	fmt.Fprintf(&b, "Product Name: %s\n", product.Name)
	fmt.Fprintf(&b, "Brand: %s\n", product.Brand)
	fmt.Fprintf(&b, "Ingredients: %s\n", product.Ingredients)
	b.WriteString("Nutriments (per 100g):\n")
	fmt.Fprintf(&b, "- Sugar: %gg\n", product.Nutriments.Sugars)
	fmt.Fprintf(&b, "- Salt: %gg\n", product.Nutriments.Salt)
	fmt.Fprintf(&b, "- Fat: %gg\n", product.Nutriments.Fat)
	fmt.Fprintf(&b, "- Protein: %gg\n", product.Nutriments.Proteins)
	fmt.Fprintf(&b, "- Carbohydrates: %gg\n", product.Nutriments.Carbohydrates)
	fmt.Fprintf(&b, "- Calories: %g kcal\n", product.Nutriments.EnergyKcal)
	b.WriteString("\n")

	if profile == nil {
		b.WriteString("Assess for a generic adult with no specific dietary goals.\n")
	} else {
		writePersonalization(&b, profile)
	}

	b.WriteString("\nProvide a strict assessment of its health impact, sustainability, and potential allergens.")
	return b.String()
}

func writePersonalization(b *strings.Builder, profile *models.UserProfile) {
	b.WriteString("Personalize the assessment for this user:\n")
	fmt.Fprintf(b, "- Activity level: %s\n", profile.ActivityLevel)
	fmt.Fprintf(b, "- Health goal: %s\n", profile.HealthGoal)

	switch profile.HealthGoal {
	case models.GoalWeightLoss:
		b.WriteString("The user is aiming for weight loss: penalize high sugar and calorie-dense products more heavily.\n")
	case models.GoalMuscleGain:
		b.WriteString("The user is aiming for muscle gain: score high-protein products more favorably.\n")
	case models.GoalMaintenance:
		b.WriteString("The user is maintaining their weight: apply balanced scoring.\n")
	}

	switch profile.ActivityLevel {
	case models.ActivityActive:
		b.WriteString("The user exercises daily: be more tolerant of carbohydrate and energy content.\n")
	case models.ActivitySedentary:
		b.WriteString("The user is mostly sedentary: be stricter about energy density.\n")
	}
}
