package momo

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junwei-lu/pricelens/internal/models"
)

const searchFixture = `
<html><body>
<div class="listArea">
  <div class="productInfo">
    <a href="/goods/GoodsDetail.jsp?i_code=123456"><img src="https://img.momoshop.com.tw/g1.webp"></a>
    <h3 class="prdName">象印 保溫瓶 480ml</h3>
    <span class="price">$790</span>
    <del>$1,080</del>
    <span class="sellCount">已售1.2萬</span>
  </div>
  <div class="productInfo">
    <a href="/goods/GoodsDetail.jsp?i_code=777"><img data-src="/img/g2.webp"></a>
    <h3 class="prdName">膳魔師 燜燒罐</h3>
    <span class="price">$990</span>
  </div>
  <div class="productInfo">
    <h3 class="prdName">缺連結的商品</h3>
    <span class="price">$100</span>
  </div>
</div>
</body></html>`

func TestParseSearch(t *testing.T) {
	products, err := parseSearch([]byte(searchFixture))
	require.NoError(t, err)
	require.Len(t, products, 2, "listing without a link has no URL and is dropped")

	first := products[0]
	assert.Equal(t, "象印 保溫瓶 480ml", first.Name)
	assert.Equal(t, 790.0, first.Price)
	assert.Equal(t, 1080.0, first.OriginalPrice)
	assert.Equal(t, 12000, first.SalesVolume, "萬 shorthand expands to ten-thousands")
	assert.Equal(t, "https://www.momoshop.com.tw/goods/GoodsDetail.jsp?i_code=123456", first.ProductURL)
	assert.Equal(t, "Momo", first.Platform)

	second := products[1]
	assert.Equal(t, 0.0, second.OriginalPrice)
	assert.Equal(t, "https://www.momoshop.com.tw/img/g2.webp", second.ImageURL)
}

const detailFixture = `
<html><body>
<div class="prodInfoName"><h1 class="prdName">象印 不鏽鋼保溫瓶</h1></div>
<span class="price">$790</span>
<span class="rating">4.6</span>
<span class="commentNum">213</span>
<div class="mainPic"><img src="//img.momoshop.com.tw/main.webp"></div>
<table class="specification">
  <tr><th>容量</th><td>480ml</td></tr>
</table>
</body></html>`

func TestParseDetails(t *testing.T) {
	p, err := parseDetails([]byte(detailFixture), "https://www.momoshop.com.tw/goods/GoodsDetail.jsp?i_code=123")
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "象印 不鏽鋼保溫瓶", p.Name)
	assert.Equal(t, 790.0, p.Price)
	assert.Equal(t, 4.6, p.Rating)
	assert.Equal(t, 213, p.ReviewCount)
	assert.Equal(t, "https://img.momoshop.com.tw/main.webp", p.ImageURL)
	assert.Equal(t, "480ml", p.Specs["容量"])
}

func TestSearchURLSortMapping(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	c := New(nil, logrus.NewEntry(log), Options{})

	assert.Contains(t, c.searchURL("保溫瓶", &models.SearchFilters{SortBy: models.SortByPrice}), "searchType=priceAsc")
	assert.Contains(t, c.searchURL("保溫瓶", &models.SearchFilters{SortBy: models.SortBySales}), "searchType=salesQty")
	assert.Contains(t, c.searchURL("保溫瓶", nil), "searchType=relevant")
	assert.Contains(t, c.searchURL("保溫瓶", &models.SearchFilters{Page: 3}), "curPage=3")
}

func TestMatchURL(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	c := New(nil, logrus.NewEntry(log), Options{})

	assert.True(t, c.MatchURL("https://www.momoshop.com.tw/goods/GoodsDetail.jsp?i_code=1"))
	assert.False(t, c.MatchURL("https://shopee.tw/p/1"))
}
