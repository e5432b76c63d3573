package platform

import (
	"context"

	"github.com/junwei-lu/pricelens/internal/models"
)

// Crawler is the capability contract every platform adapter implements.
//
// Search never fails on "no results" — it returns an empty slice. It may
// return an error for transport-level failures, which the aggregator
// recovers from. Every emitted product satisfies models.Product.Valid().
type Crawler interface {
	// Platform returns the display name, e.g. "Shopee".
	Platform() string

	// MatchURL reports whether the adapter claims the given product URL's
	// domain. Used to detect the originating platform in URL-mode search.
	MatchURL(rawURL string) bool

	// Search returns normalized products for a keyword. filters may be nil.
	Search(ctx context.Context, keyword string, filters *models.SearchFilters) ([]models.Product, error)

	// ProductDetails fetches a single product by URL. A page that yields no
	// parseable product returns (nil, nil).
	ProductDetails(ctx context.Context, rawURL string) (*models.Product, error)
}
