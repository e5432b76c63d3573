package aggregate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junwei-lu/pricelens/internal/models"
	"github.com/junwei-lu/pricelens/internal/platform"
)

type stubCrawler struct {
	name     string
	domain   string
	products []models.Product
	err      error
	detail   *models.Product
}

func (s *stubCrawler) Platform() string { return s.name }

func (s *stubCrawler) MatchURL(rawURL string) bool { return strings.Contains(rawURL, s.domain) }

func (s *stubCrawler) Search(context.Context, string, *models.SearchFilters) ([]models.Product, error) {
	return s.products, s.err
}

func (s *stubCrawler) ProductDetails(context.Context, string) (*models.Product, error) {
	return s.detail, s.err
}

func testLog() *logrus.Entry {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(log)
}

func testRegistry() *platform.Registry {
	r := platform.NewRegistry()
	r.Register("shopee", &stubCrawler{
		name:   "Shopee",
		domain: "shopee.tw",
		products: []models.Product{
			{Name: "蝦皮耳機", Price: 750, ProductURL: "https://shopee.tw/p/1", Platform: "Shopee"},
		},
		detail: &models.Product{Name: "蝦皮耳機", Price: 750, ProductURL: "https://shopee.tw/p/1", Platform: "Shopee"},
	})
	r.Register("momo", &stubCrawler{
		name:   "Momo",
		domain: "momoshop.com.tw",
		products: []models.Product{
			{Name: "momo耳機", Price: 990, ProductURL: "https://www.momoshop.com.tw/p/2", Platform: "Momo"},
			{Name: "momo耳機豪華", Price: 320, ProductURL: "https://www.momoshop.com.tw/p/3", Platform: "Momo"},
		},
	})
	r.Register("1688", &stubCrawler{name: "1688", domain: "1688.com", err: errors.New("blocked")})
	return r
}

func TestSearchAllOneEntryPerPlatform(t *testing.T) {
	a := New(testRegistry(), testLog())

	results, err := a.SearchAll(context.Background(), "耳機", []string{"shopee", "momo", "1688"}, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Len(t, results["shopee"], 1)
	assert.Len(t, results["momo"], 2)
	// The failing platform is present but empty, not missing.
	require.Contains(t, results, "1688")
	assert.Empty(t, results["1688"])
}

func TestSearchAllSkipsUnknownPlatforms(t *testing.T) {
	a := New(testRegistry(), testLog())

	results, err := a.SearchAll(context.Background(), "耳機", []string{"shopee", "amazon"}, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results, "shopee")
}

func TestSearchAllNoPlatformsResolve(t *testing.T) {
	a := New(testRegistry(), testLog())

	_, err := a.SearchAll(context.Background(), "耳機", []string{"amazon", "ebay"}, nil)
	assert.ErrorIs(t, err, ErrNoPlatforms)
}

// filteringCrawler honors MinSales like the real adapters do.
type filteringCrawler struct {
	products []models.Product
}

func (f *filteringCrawler) Platform() string { return "Shopee" }

func (f *filteringCrawler) MatchURL(string) bool { return false }

func (f *filteringCrawler) Search(_ context.Context, _ string, filters *models.SearchFilters) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if filters != nil && p.SalesVolume < filters.MinSales {
			continue
		}
		if filters != nil && p.Rating < filters.MinRating {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *filteringCrawler) ProductDetails(context.Context, string) (*models.Product, error) {
	return nil, nil
}

func TestSearchAllCacheKeyedOnAllFilters(t *testing.T) {
	r := platform.NewRegistry()
	r.Register("shopee", &filteringCrawler{products: []models.Product{
		{Name: "熱銷耳機", Price: 490, ProductURL: "https://shopee.tw/p/1", Platform: "Shopee", SalesVolume: 9000, Rating: 4.8},
		{Name: "冷門耳機", Price: 290, ProductURL: "https://shopee.tw/p/2", Platform: "Shopee", SalesVolume: 12, Rating: 3.1},
	}})
	a := New(r, testLog(), WithCache())

	all, err := a.SearchAll(context.Background(), "耳機", []string{"shopee"}, &models.SearchFilters{})
	require.NoError(t, err)
	require.Len(t, all["shopee"], 2)

	// Changing only MinSales must miss the cache, not replay the
	// unfiltered results.
	bySales, err := a.SearchAll(context.Background(), "耳機", []string{"shopee"}, &models.SearchFilters{MinSales: 5000})
	require.NoError(t, err)
	require.Len(t, bySales["shopee"], 1)
	assert.Equal(t, "熱銷耳機", bySales["shopee"][0].Name)

	// Same for MinRating.
	byRating, err := a.SearchAll(context.Background(), "耳機", []string{"shopee"}, &models.SearchFilters{MinRating: 4.5})
	require.NoError(t, err)
	require.Len(t, byRating["shopee"], 1)
}

func TestSearchAllCacheReturnsSameResults(t *testing.T) {
	a := New(testRegistry(), testLog(), WithCache())

	first, err := a.SearchAll(context.Background(), "耳機", []string{"shopee"}, nil)
	require.NoError(t, err)
	second, err := a.SearchAll(context.Background(), "耳機", []string{"shopee"}, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProductFromURL(t *testing.T) {
	a := New(testRegistry(), testLog())

	t.Run("matched domain", func(t *testing.T) {
		p, err := a.ProductFromURL(context.Background(), "https://shopee.tw/p/1")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Shopee", p.Platform)
	})

	t.Run("unsupported domain", func(t *testing.T) {
		_, err := a.ProductFromURL(context.Background(), "https://www.amazon.com/dp/B000")
		assert.ErrorIs(t, err, ErrUnsupportedURL)
	})
}

func TestSearchByURL(t *testing.T) {
	a := New(testRegistry(), testLog())

	combined, err := a.SearchByURL(context.Background(), "https://shopee.tw/p/1", []string{"shopee", "momo"})
	require.NoError(t, err)
	require.Len(t, combined, 3)

	// The resolved product leads; its own platform is not searched again.
	assert.Equal(t, "蝦皮耳機", combined[0].Name)
	assert.Equal(t, "Momo", combined[1].Platform)
	assert.Equal(t, "Momo", combined[2].Platform)
}

func TestSearchByURLUnsupportedDomain(t *testing.T) {
	a := New(testRegistry(), testLog())
	_, err := a.SearchByURL(context.Background(), "https://www.amazon.com/dp/B000", []string{"shopee"})
	assert.ErrorIs(t, err, ErrUnsupportedURL)
}

func TestComparePricesSortedAscending(t *testing.T) {
	a := New(testRegistry(), testLog())

	ranked, err := a.ComparePrices(context.Background(), "耳機", []string{"shopee", "momo"})
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, 320.0, ranked[0].Price)
	assert.Equal(t, 750.0, ranked[1].Price)
	assert.Equal(t, 990.0, ranked[2].Price)
}

func TestFlattenDeterministicOrder(t *testing.T) {
	results := map[string][]models.Product{
		"momo":   {{Name: "m1"}, {Name: "m2"}},
		"1688":   {{Name: "a1"}},
		"shopee": {{Name: "s1"}},
	}

	flat := Flatten(results)
	require.Len(t, flat, 4)
	// Platforms contribute in sorted key order.
	assert.Equal(t, "a1", flat[0].Name)
	assert.Equal(t, "m1", flat[1].Name)
	assert.Equal(t, "m2", flat[2].Name)
	assert.Equal(t, "s1", flat[3].Name)
}
