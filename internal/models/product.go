package models

// Nutriments holds per-100g figures for a product. Values are always set;
// upstream fields that are missing are coerced to zero at the catalog boundary.
type Nutriments struct {
	EnergyKcal    float64 `json:"energy_kcal"`
	Sugars        float64 `json:"sugars"`
	Salt          float64 `json:"salt"`
	Fat           float64 `json:"fat"`
	Proteins      float64 `json:"proteins"`
	Carbohydrates float64 `json:"carbohydrates"`
}

// ProductRecord is one scanned item as normalized from the catalog response.
// Every field is populated; consumers never branch on missing values.
type ProductRecord struct {
	Barcode     string     `json:"barcode"`
	Name        string     `json:"name"`
	Brand       string     `json:"brand"`
	Ingredients string     `json:"ingredients"`
	NutriScore  string     `json:"nutriscore"` // a-e, or "unknown"
	ImageURL    string     `json:"image_url"`
	Nutriments  Nutriments `json:"nutriments"`
}
