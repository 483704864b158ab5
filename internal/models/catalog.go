package models

// EURRate is the fixed BGN/EUR conversion rate.
const EURRate = 1.95583

// CatalogItem is one watch model in the catalog.
type CatalogItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	PriceBGN    float64 `json:"price_bgn"`
	PriceEUR    float64 `json:"price_eur"`
	Image       string  `json:"image"`
}
