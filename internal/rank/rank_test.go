package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junwei-lu/pricelens/internal/models"
)

func sample() []models.Product {
	return []models.Product{
		{Name: "momo耳機", Platform: "Momo", Price: 990, SalesVolume: 120, Rating: 4.2},
		{Name: "蝦皮耳機", Platform: "Shopee", Price: 750, SalesVolume: 3400, Rating: 4.8, OriginalPrice: 1000},
		{Name: "批發耳機", Platform: "1688", Price: 320, SalesVolume: 9000, Rating: 4.0},
		{Name: "PChome耳機", Platform: "PChome", Price: 990, SalesVolume: 56, Rating: 4.5, OriginalPrice: 1100},
	}
}

func TestRankByPriceAscending(t *testing.T) {
	out := Rank(sample(), models.SortByPrice, "")
	require.Len(t, out, 4)
	assert.Equal(t, []float64{320, 750, 990, 990}, []float64{out[0].Price, out[1].Price, out[2].Price, out[3].Price})
	// Stable: the two 990s keep input order (Momo before PChome).
	assert.Equal(t, "Momo", out[2].Platform)
	assert.Equal(t, "PChome", out[3].Platform)
}

func TestRankByPriceDoesNotMutateInput(t *testing.T) {
	in := sample()
	Rank(in, models.SortByPrice, "")
	assert.Equal(t, "Momo", in[0].Platform)
}

func TestRankBySalesDescending(t *testing.T) {
	out := Rank(sample(), models.SortBySales, "")
	assert.Equal(t, 9000, out[0].SalesVolume)
	assert.Equal(t, 56, out[3].SalesVolume)
}

func TestRankByRatingDescending(t *testing.T) {
	out := Rank(sample(), models.SortByRating, "")
	assert.Equal(t, 4.8, out[0].Rating)
	assert.Equal(t, 4.0, out[3].Rating)
}

func TestRankByDiscountDescending(t *testing.T) {
	out := Rank(sample(), models.SortByDiscount, "")
	// Shopee: 25%, PChome: 10%, others 0.
	assert.Equal(t, "Shopee", out[0].Platform)
	assert.Equal(t, "PChome", out[1].Platform)
}

func TestRankPlatformFilter(t *testing.T) {
	t.Run("named platform", func(t *testing.T) {
		out := Rank(sample(), models.SortByPrice, "Shopee")
		require.Len(t, out, 1)
		assert.Equal(t, "Shopee", out[0].Platform)
	})

	t.Run("all keeps everything", func(t *testing.T) {
		assert.Len(t, Rank(sample(), models.SortByPrice, "all"), 4)
	})

	t.Run("unknown platform yields empty", func(t *testing.T) {
		assert.Empty(t, Rank(sample(), models.SortByPrice, "Amazon"))
	})
}

func TestDiscount(t *testing.T) {
	tests := []struct {
		name     string
		product  models.Product
		expected int
	}{
		{"quarter off", models.Product{Price: 750, OriginalPrice: 1000}, 25},
		{"rounded up", models.Product{Price: 667, OriginalPrice: 1000}, 33},
		{"no original price", models.Product{Price: 500}, 0},
		{"original below current", models.Product{Price: 500, OriginalPrice: 400}, 0},
		{"original equals current", models.Product{Price: 500, OriginalPrice: 500}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Discount(tt.product))
		})
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sample())
	assert.Equal(t, 320.0, s.MinPrice)
	assert.Equal(t, 9000, s.MaxSales)
	assert.Equal(t, 4, s.PlatformCount)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, Summarize(nil))
}
