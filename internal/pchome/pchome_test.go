package pchome

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junwei-lu/pricelens/internal/models"
)

const searchFixture = `
<html><body>
<div id="ProductContainer">
  <div class="prod_item">
    <a href="/prod/DYAJ9D-A900FQ2MC"><img src="//img.pchome.com.tw/a.jpg"></a>
    <div class="prod_name"> 羅技 無線鍵盤 </div>
    <div class="price">$1,290</div>
    <div class="price_org">$1,590</div>
  </div>
  <div class="prod_item">
    <a href="/prod/NOPRICE"></a>
    <div class="prod_name">沒有價格的商品</div>
    <div class="price"></div>
  </div>
</div>
<div class="c-prodInfo">
  <a href="https://24h.pchome.com.tw/prod/XYZ123"><img data-src="/img/b.jpg"></a>
  <div class="c-prodInfo__title">雷蛇 電競滑鼠</div>
  <div class="c-prodInfo__price">NT$890</div>
</div>
</body></html>`

func TestParseSearch(t *testing.T) {
	products, err := parseSearch([]byte(searchFixture))
	require.NoError(t, err)
	require.Len(t, products, 2, "the priceless listing is dropped")

	legacy := products[0]
	assert.Equal(t, "羅技 無線鍵盤", legacy.Name)
	assert.Equal(t, 1290.0, legacy.Price)
	assert.Equal(t, 1590.0, legacy.OriginalPrice)
	assert.Equal(t, "https://24h.pchome.com.tw/prod/DYAJ9D-A900FQ2MC", legacy.ProductURL)
	assert.Equal(t, "https://img.pchome.com.tw/a.jpg", legacy.ImageURL)
	assert.Equal(t, "PChome", legacy.Platform)

	modern := products[1]
	assert.Equal(t, "雷蛇 電競滑鼠", modern.Name)
	assert.Equal(t, 890.0, modern.Price)
	assert.Equal(t, "https://24h.pchome.com.tw/prod/XYZ123", modern.ProductURL)
	assert.Equal(t, "https://24h.pchome.com.tw/img/b.jpg", modern.ImageURL, "lazy-loaded data-src is used when src is absent")
}

const detailFixture = `
<html><body>
<div id="ProdInfo">
  <h1>羅技 MX Keys 無線鍵盤</h1>
  <div class="price">NT$3,290</div>
  <img src="/img/mxkeys.jpg">
</div>
<table class="prod-spec-table">
  <tr><th>品牌</th><td>Logitech</td></tr>
  <tr><th>連線方式</th><td>藍牙 / USB接收器</td></tr>
  <tr><th></th><td>無標題列</td></tr>
</table>
</body></html>`

func TestParseDetails(t *testing.T) {
	p, err := parseDetails([]byte(detailFixture), "https://24h.pchome.com.tw/prod/DYAJ9D")
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "羅技 MX Keys 無線鍵盤", p.Name)
	assert.Equal(t, 3290.0, p.Price)
	assert.Equal(t, "https://24h.pchome.com.tw/prod/DYAJ9D", p.ProductURL)
	require.NotNil(t, p.Specs)
	assert.Equal(t, "Logitech", p.Specs["品牌"])
	assert.Len(t, p.Specs, 2, "rows without a key are skipped")
}

func TestParseDetailsInvalidPage(t *testing.T) {
	p, err := parseDetails([]byte("<html><body><p>404</p></body></html>"), "u")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSearchURLSortMapping(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	c := New(nil, logrus.NewEntry(log), Options{})

	assert.Contains(t, c.searchURL("鍵盤", &models.SearchFilters{SortBy: models.SortByPrice}), "sort=price/asc")
	assert.Contains(t, c.searchURL("鍵盤", &models.SearchFilters{SortBy: models.SortBySales}), "sort=sale/dc")
	assert.Contains(t, c.searchURL("鍵盤", nil), "sort=rnk/dc")
}

func TestSyntheticProductDetails(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	c := New(nil, logrus.NewEntry(log), Options{Synthetic: true})

	p, err := c.ProductDetails(context.Background(), "https://24h.pchome.com.tw/prod/ABC")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "https://24h.pchome.com.tw/prod/ABC", p.ProductURL)
	assert.True(t, p.Valid())
}
