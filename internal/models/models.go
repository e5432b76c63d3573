package models

import "time"

// StockStatus values reported by adapters.
const (
	StockAvailable  = "available"
	StockOutOfStock = "out_of_stock"
)

// SortBy values accepted in SearchFilters and by the ranker.
const (
	SortByPrice     = "price"
	SortBySales     = "sales"
	SortByRating    = "rating"
	SortByRelevance = "relevance"
	SortByDiscount  = "discount"
)

// Product is the normalized record every platform adapter emits.
// Rating is always on a 0-5 scale at the adapter boundary.
type Product struct {
	Name          string         `json:"name"`
	Price         float64        `json:"price"`
	OriginalPrice float64        `json:"original_price,omitempty"`
	ImageURL      string         `json:"image_url,omitempty"`
	ProductURL    string         `json:"product_url"`
	Platform      string         `json:"platform"`
	Rating        float64        `json:"rating,omitempty"`
	ReviewCount   int            `json:"review_count,omitempty"`
	SalesVolume   int            `json:"sales_volume,omitempty"`
	ShippingFee   float64        `json:"shipping_fee,omitempty"`
	StockStatus   string         `json:"stock_status,omitempty"`
	VendorName    string         `json:"vendor_name,omitempty"`
	Specs         map[string]any `json:"specs,omitempty"`
	ScrapedAt     time.Time      `json:"scraped_at,omitempty"`
}

// Valid reports whether the product satisfies the adapter emission
// invariant: non-empty name, positive price, non-empty product URL.
// Adapters drop invalid records silently.
func (p *Product) Valid() bool {
	return p.Name != "" && p.Price > 0 && p.ProductURL != ""
}

// SearchFilters is caller-supplied sort/pagination/bound configuration
// for one search. Each adapter maps SortBy to its own native query
// parameter; there is no cross-adapter sort semantics guarantee.
type SearchFilters struct {
	PriceMin  float64 `json:"price_min,omitempty"`
	PriceMax  float64 `json:"price_max,omitempty"`
	MinSales  int     `json:"min_sales,omitempty"`
	MinRating float64 `json:"min_rating,omitempty"`
	SortBy    string  `json:"sort_by,omitempty"`
	Page      int     `json:"page,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}
