package shopee

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junwei-lu/pricelens/internal/models"
)

const searchFixture = `{
  "items": [
    {
      "item_basic": {
        "itemid": 2001, "shopid": 101,
        "name": "  藍牙耳機  降噪版 ",
        "price": 75000000,
        "price_before_discount": 100000000,
        "image": "abc123",
        "historical_sold": 3400,
        "stock": 25,
        "liked_count": 180,
        "shop_location": "台北市",
        "item_rating": {"rating_star": 4.8, "rating_count": [520]}
      }
    },
    {
      "item_basic": {
        "itemid": 2002, "shopid": 102,
        "name": "無名商品測試",
        "price": 0,
        "stock": 5
      }
    },
    {"ad_data": {"is_ad": true}}
  ]
}`

func TestParseSearch(t *testing.T) {
	products := parseSearch([]byte(searchFixture))
	require.Len(t, products, 1, "zero-price item and non-item entry are dropped")

	p := products[0]
	assert.Equal(t, "藍牙耳機 降噪版", p.Name)
	assert.Equal(t, 750.0, p.Price, "wire price is scaled down by 1e5")
	assert.Equal(t, 1000.0, p.OriginalPrice)
	assert.Equal(t, "https://shopee.tw/product/101/2001", p.ProductURL)
	assert.Equal(t, "https://cf.shopee.tw/file/abc123", p.ImageURL)
	assert.Equal(t, "Shopee", p.Platform)
	assert.Equal(t, 4.8, p.Rating)
	assert.Equal(t, 520, p.ReviewCount)
	assert.Equal(t, 3400, p.SalesVolume)
	assert.Equal(t, "台北市", p.VendorName)
	assert.Equal(t, models.StockAvailable, p.StockStatus)
	assert.Equal(t, int64(25), p.Specs["stock"])
}

func TestParseSearchSoldFallback(t *testing.T) {
	body := `{"items":[{"item_basic":{"itemid":1,"shopid":1,"name":"x","price":10000000,"sold":42,"stock":1}}]}`
	products := parseSearch([]byte(body))
	require.Len(t, products, 1)
	assert.Equal(t, 42, products[0].SalesVolume)
}

func TestParseSearchOutOfStock(t *testing.T) {
	body := `{"items":[{"item_basic":{"itemid":1,"shopid":1,"name":"x","price":10000000,"stock":0}}]}`
	products := parseSearch([]byte(body))
	require.Len(t, products, 1)
	assert.Equal(t, models.StockOutOfStock, products[0].StockStatus)
}

func TestParseDetails(t *testing.T) {
	body := `{"data":{"itemid":2001,"shopid":101,"name":"藍牙耳機","price":75000000,"stock":3}}`
	p := parseDetails([]byte(body), "https://shopee.tw/i.101.2001")
	require.NotNil(t, p)
	assert.Equal(t, "https://shopee.tw/i.101.2001", p.ProductURL)
	assert.Equal(t, 750.0, p.Price)

	assert.Nil(t, parseDetails([]byte(`{"error":2}`), "u"))
}

func TestParseItemURL(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		shopID string
		itemID string
		ok     bool
	}{
		{"short form", "https://shopee.tw/product-name-i.101.2001", "101", "2001", true},
		{"long form", "https://shopee.tw/product/101/2001", "101", "2001", true},
		{"not an item", "https://shopee.tw/search?keyword=x", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shopID, itemID, ok := parseItemURL(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.shopID, shopID)
			assert.Equal(t, tt.itemID, itemID)
		})
	}
}

func TestSyntheticSearch(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	c := New(nil, logrus.NewEntry(log), Options{Synthetic: true})

	products, err := c.Search(context.Background(), "耳機", &models.SearchFilters{Limit: 5})
	require.NoError(t, err)
	require.Len(t, products, 5)
	for _, p := range products {
		assert.True(t, p.Valid())
		assert.Equal(t, "Shopee", p.Platform)
	}
}

func TestSearchURLSortMapping(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	c := New(nil, logrus.NewEntry(log), Options{})

	tests := []struct {
		sortBy string
		want   []string
	}{
		{models.SortByPrice, []string{"by=price", "order=asc"}},
		{models.SortBySales, []string{"by=sales", "order=desc"}},
		{"", []string{"by=relevancy"}},
	}
	for _, tt := range tests {
		u := c.searchURL("耳機", &models.SearchFilters{SortBy: tt.sortBy})
		for _, want := range tt.want {
			assert.Contains(t, u, want)
		}
	}
}
