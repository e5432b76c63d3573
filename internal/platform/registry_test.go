package platform

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junwei-lu/pricelens/internal/models"
)

type fakeCrawler struct {
	name   string
	domain string
}

func (f *fakeCrawler) Platform() string { return f.name }

func (f *fakeCrawler) MatchURL(rawURL string) bool { return strings.Contains(rawURL, f.domain) }

func (f *fakeCrawler) Search(context.Context, string, *models.SearchFilters) ([]models.Product, error) {
	return nil, nil
}

func (f *fakeCrawler) ProductDetails(context.Context, string) (*models.Product, error) {
	return nil, nil
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	r.Register("Shopee", &fakeCrawler{name: "Shopee", domain: "shopee.tw"})

	t.Run("case insensitive lookup", func(t *testing.T) {
		c, err := r.Get("shopee")
		require.NoError(t, err)
		assert.Equal(t, "Shopee", c.Platform())

		c, err = r.Get("SHOPEE")
		require.NoError(t, err)
		assert.Equal(t, "Shopee", c.Platform())
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := r.Get("amazon")
		assert.ErrorIs(t, err, ErrNotRegistered)
	})
}

func TestRegistryMatch(t *testing.T) {
	r := NewRegistry()
	r.Register("shopee", &fakeCrawler{name: "Shopee", domain: "shopee.tw"})
	r.Register("momo", &fakeCrawler{name: "Momo", domain: "momoshop.com.tw"})

	c := r.Match("https://shopee.tw/product/123/456")
	require.NotNil(t, c)
	assert.Equal(t, "Shopee", c.Platform())

	assert.Nil(t, r.Match("https://www.amazon.com/dp/B000"))
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	r.Register("momo", &fakeCrawler{name: "Momo"})
	r.Register("1688", &fakeCrawler{name: "1688"})
	r.Register("shopee", &fakeCrawler{name: "Shopee"})

	assert.Equal(t, []string{"1688", "momo", "shopee"}, r.List())
}
