package models

import (
	"time"
)

// ScanRecord is one completed scan as persisted for the history view.
type ScanRecord struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	Barcode             string    `json:"barcode"`
	ProductName         string    `json:"product_name"`
	Brand               string    `json:"brand"`
	HealthScore         float64   `json:"health_score"`
	SustainabilityScore float64   `json:"sustainability_score"`
	Category            Category  `json:"category"`
	CreatedAt           time.Time `json:"created_at"`
}
