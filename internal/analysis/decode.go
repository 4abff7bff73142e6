package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/snacksense/backend/internal/models"
)

var requiredFields = []string{
	"health_score",
	"category",
	"sustainability_score",
	"allergens",
	"summary",
	"healthier_alternatives",
}

// DecodeResult parses the model's JSON output into an AnalysisResult,
// enforcing the schema contract: every required field must be present and the
// category must be one of the three known verdicts. On any violation it
// returns ErrSchemaViolation and no partial result.
func DecodeResult(text string) (*models.AnalysisResult, error) {
	// Some model revisions wrap JSON in markdown fences despite the MIME type.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	// Check field presence on a raw map first so a zero value is
	// distinguishable from an omitted field.
	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: unparseable response: %v", ErrSchemaViolation, err)
	}
	for _, field := range requiredFields {
		if _, ok := raw[field]; !ok {
			return nil, fmt.Errorf("%w: missing required field %q", ErrSchemaViolation, field)
		}
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	if !models.ValidCategory(result.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrSchemaViolation, result.Category)
	}

	return &result, nil
}
