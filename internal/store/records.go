package store

import (
	"time"

	"github.com/junwei-lu/pricelens/internal/models"
)

// Favorite is a saved product. The product URL is the real-world identity
// key: the same listing is never saved twice.
type Favorite struct {
	Product models.Product `json:"product"`
	AddedAt time.Time      `json:"added_at"`
}

// HistoryEntry records one executed search.
type HistoryEntry struct {
	Keyword     string    `json:"keyword"`
	Platforms   []string  `json:"platforms"`
	ResultCount int       `json:"result_count"`
	SearchedAt  time.Time `json:"searched_at"`
}

// PriceAlert watches a product for a target price.
type PriceAlert struct {
	ProductName string    `json:"product_name"`
	ProductURL  string    `json:"product_url"`
	Platform    string    `json:"platform"`
	TargetPrice float64   `json:"target_price"`
	Triggered   bool      `json:"triggered"`
	CreatedAt   time.Time `json:"created_at"`
}

// Vendor is a supplier contact-book entry.
type Vendor struct {
	Name          string    `json:"name"`
	Platform      string    `json:"platform,omitempty"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Website       string    `json:"website,omitempty"`
	Rating        float64   `json:"rating,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
