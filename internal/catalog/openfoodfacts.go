package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/snacksense/backend/internal/models"
)

// ErrNotFound means the barcode has no entry in the catalog. This is distinct
// from a transport failure: the pipeline must not proceed to analysis and the
// user has to rescan.
var ErrNotFound = errors.New("product not found in catalog")

const (
	// DefaultBaseURL is the Open Food Facts v0 product endpoint.
	DefaultBaseURL = "https://world.openfoodfacts.org/api/v0/product"

	defaultTimeout = 15 * time.Second

	// UnknownProductName fills in when the catalog has no name for a product.
	UnknownProductName = "Unknown Product"
	unknownBrand       = "Unknown Brand"
	noIngredients      = "No ingredients listed"
)

// Client looks up products by barcode against Open Food Facts.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a catalog client. An empty baseURL selects the public
// Open Food Facts endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// offResponse mirrors the subset of the Open Food Facts payload we consume.
// Status is 1 when the barcode is known, 0 otherwise.
type offResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName     string         `json:"product_name"`
		Brands          string         `json:"brands"`
		IngredientsText string         `json:"ingredients_text"`
		NutriscoreGrade string         `json:"nutriscore_grade"`
		ImageURL        string         `json:"image_url"`
		Nutriments      map[string]any `json:"nutriments"`
	} `json:"product"`
}

// Lookup fetches the product for a barcode. The barcode is treated as an
// opaque identifier; no checksum validation happens here. Every optional
// upstream field is coerced to an explicit default so the returned record is
// always total.
func (c *Client) Lookup(ctx context.Context, barcode string) (*models.ProductRecord, error) {
	url := fmt.Sprintf("%s/%s.json", c.baseURL, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var body offResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse catalog response: %w", err)
	}

	if body.Status == 0 {
		return nil, ErrNotFound
	}

	p := body.Product
	record := &models.ProductRecord{
		Barcode:     barcode,
		Name:        orDefault(p.ProductName, UnknownProductName),
		Brand:       orDefault(p.Brands, unknownBrand),
		Ingredients: orDefault(p.IngredientsText, noIngredients),
		NutriScore:  orDefault(p.NutriscoreGrade, "unknown"),
		ImageURL:    p.ImageURL,
		Nutriments: models.Nutriments{
			EnergyKcal:    nutriment(p.Nutriments, "energy-kcal_100g"),
			Sugars:        nutriment(p.Nutriments, "sugars_100g"),
			Salt:          nutriment(p.Nutriments, "salt_100g"),
			Fat:           nutriment(p.Nutriments, "fat_100g"),
			Proteins:      nutriment(p.Nutriments, "proteins_100g"),
			Carbohydrates: nutriment(p.Nutriments, "carbohydrates_100g"),
		},
	}
	return record, nil
}

// nutriment coerces an Open Food Facts nutriments value to float64. The feed
// serves both numbers and numeric strings; anything else becomes zero.
func nutriment(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%f", &f); err == nil {
			return f
		}
	}
	return 0
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
