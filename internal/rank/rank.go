// Package rank sorts, filters and summarizes merged search results.
// Everything here is a pure function over an in-memory slice; the sets are
// small (hundreds of records at most) so each call recomputes from scratch.
package rank

import (
	"math"
	"sort"

	"github.com/junwei-lu/pricelens/internal/models"
)

// Rank filters by platform and sorts a copy of the input. filterPlatform ""
// or "all" keeps every record. Sorting is stable: equal keys retain their
// relative input order. Missing numeric fields count as zero.
func Rank(results []models.Product, sortBy, filterPlatform string) []models.Product {
	filtered := results
	if filterPlatform != "" && filterPlatform != "all" {
		filtered = make([]models.Product, 0, len(results))
		for _, r := range results {
			if r.Platform == filterPlatform {
				filtered = append(filtered, r)
			}
		}
	}

	out := append([]models.Product(nil), filtered...)
	switch sortBy {
	case models.SortByPrice:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case models.SortBySales:
		sort.SliceStable(out, func(i, j int) bool { return out[i].SalesVolume > out[j].SalesVolume })
	case models.SortByRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case models.SortByDiscount:
		sort.SliceStable(out, func(i, j int) bool { return Discount(out[i]) > Discount(out[j]) })
	}
	return out
}

// Discount returns the rounded discount percentage, 0 when there is no
// meaningful pre-discount price (absent, zero, or not above the current
// price).
func Discount(p models.Product) int {
	if p.OriginalPrice <= 0 || p.OriginalPrice <= p.Price {
		return 0
	}
	return int(math.Round((p.OriginalPrice - p.Price) / p.OriginalPrice * 100))
}

// Stats are the derived aggregates the display layer shows next to a result
// set. They are recomputed in full on every call, never maintained
// incrementally.
type Stats struct {
	MinPrice      float64 `json:"min_price"`
	MaxSales      int     `json:"max_sales"`
	PlatformCount int     `json:"platform_count"`
}

// Summarize computes Stats over the given result set.
func Summarize(results []models.Product) Stats {
	var s Stats
	if len(results) == 0 {
		return s
	}

	s.MinPrice = results[0].Price
	platforms := make(map[string]struct{})
	for _, r := range results {
		if r.Price < s.MinPrice {
			s.MinPrice = r.Price
		}
		if r.SalesVolume > s.MaxSales {
			s.MaxSales = r.SalesVolume
		}
		platforms[r.Platform] = struct{}{}
	}
	s.PlatformCount = len(platforms)
	return s
}
