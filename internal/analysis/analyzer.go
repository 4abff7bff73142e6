package analysis

import (
	"context"
	"errors"

	"github.com/snacksense/backend/internal/models"
)

// ErrSchemaViolation means the inference response did not match the contracted
// structure: unparseable JSON, a missing required field, or an out-of-enum
// category. The whole analysis attempt fails; a half-populated result is never
// returned.
var ErrSchemaViolation = errors.New("analysis response violates schema")

// Analyzer produces a verdict for a product, optionally personalized by a
// user profile. A nil profile selects the generic-adult framing.
type Analyzer interface {
	Analyze(ctx context.Context, product *models.ProductRecord, profile *models.UserProfile) (*models.AnalysisResult, error)
}
