// Package shopee implements the Shopee Taiwan adapter. Search goes through
// the public search_items JSON endpoint; prices arrive scaled by 1e5.
package shopee

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/junwei-lu/pricelens/internal/crawl"
	"github.com/junwei-lu/pricelens/internal/httputil"
	"github.com/junwei-lu/pricelens/internal/models"
	"github.com/junwei-lu/pricelens/internal/platform"
)

const (
	platformName = "Shopee"
	baseURL      = "https://shopee.tw"

	// Wire prices are in 1/100000 of a dollar.
	priceScale = 100000
)

var itemURLPattern = regexp.MustCompile(`i\.(\d+)\.(\d+)|/product/(\d+)/(\d+)`)

var syntheticProfile = crawl.Profile{
	Platform:     platformName,
	BaseURL:      baseURL,
	Vendors:      []string{"蝦皮嚴選", "3C旗艦店", "生活百貨直營", "小資好物舖"},
	FreeShipping: true,
}

type Crawler struct {
	client    *http.Client
	log       *logrus.Entry
	synthetic bool
}

type Options struct {
	// Synthetic serves deterministic generated listings instead of hitting
	// the live endpoint. This is the default operating mode; marketplaces
	// aggressively block anonymous API clients.
	Synthetic bool
}

func New(client *http.Client, log *logrus.Entry, opts Options) *Crawler {
	return &Crawler{
		client:    client,
		log:       log.WithField("platform", platformName),
		synthetic: opts.Synthetic,
	}
}

func (c *Crawler) Platform() string { return platformName }

func (c *Crawler) MatchURL(rawURL string) bool {
	return strings.Contains(rawURL, "shopee.tw")
}

func (c *Crawler) Search(ctx context.Context, keyword string, filters *models.SearchFilters) ([]models.Product, error) {
	if c.synthetic {
		return c.syntheticSearch(keyword, filters), nil
	}

	var products []models.Product
	err := crawl.Retry(ctx, 3, 2*time.Second, func() error {
		body, err := crawl.Fetch(ctx, c.client, c.searchURL(keyword, filters), jsonHeaders())
		if err != nil {
			return err
		}
		products = parseSearch(body)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("shopee search %q: %w", keyword, err)
	}
	return products, nil
}

func (c *Crawler) ProductDetails(ctx context.Context, rawURL string) (*models.Product, error) {
	shopID, itemID, ok := parseItemURL(rawURL)
	if !ok {
		return nil, fmt.Errorf("not a shopee item URL: %s", rawURL)
	}

	if c.synthetic {
		items := crawl.Generate(syntheticProfile, "item "+itemID, 1)
		items[0].ProductURL = rawURL
		return &items[0], nil
	}

	apiURL := fmt.Sprintf("%s/api/v4/item/get?shopid=%s&itemid=%s", baseURL, shopID, itemID)
	var product *models.Product
	err := crawl.Retry(ctx, 3, 2*time.Second, func() error {
		body, err := crawl.Fetch(ctx, c.client, apiURL, jsonHeaders())
		if err != nil {
			return err
		}
		product = parseDetails(body, rawURL)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("shopee details %s: %w", rawURL, err)
	}
	return product, nil
}

// searchURL maps SortBy to Shopee's native ranking parameters. Price sorts
// ascending; everything else descending by the platform's own signal.
func (c *Crawler) searchURL(keyword string, filters *models.SearchFilters) string {
	by, order := "relevancy", "desc"
	limit, page := 60, 0
	if filters != nil {
		switch filters.SortBy {
		case models.SortByPrice:
			by, order = "price", "asc"
		case models.SortBySales:
			by = "sales"
		case models.SortByRating:
			by = "ctime"
		}
		if filters.Limit > 0 {
			limit = filters.Limit
		}
		if filters.Page > 0 {
			page = filters.Page
		}
	}

	params := url.Values{}
	params.Set("by", by)
	params.Set("order", order)
	params.Set("keyword", keyword)
	params.Set("limit", fmt.Sprint(limit))
	params.Set("newest", fmt.Sprint(page*limit))
	return baseURL + "/api/v4/search/search_items?" + params.Encode()
}

func (c *Crawler) syntheticSearch(keyword string, filters *models.SearchFilters) []models.Product {
	n := 20
	if filters != nil && filters.Limit > 0 {
		n = filters.Limit
	}
	return crawl.ApplyFilters(crawl.Generate(syntheticProfile, keyword, n), filters)
}

func parseSearch(body []byte) []models.Product {
	var products []models.Product
	gjson.GetBytes(body, "items").ForEach(func(_, item gjson.Result) bool {
		basic := item.Get("item_basic")
		if !basic.Exists() {
			return true
		}
		if p := itemBasicToProduct(basic); p.Valid() {
			products = append(products, p)
		}
		return true
	})
	return products
}

func parseDetails(body []byte, rawURL string) *models.Product {
	data := gjson.GetBytes(body, "data")
	if !data.Exists() {
		return nil
	}
	p := itemBasicToProduct(data)
	p.ProductURL = rawURL
	if !p.Valid() {
		return nil
	}
	return &p
}

func itemBasicToProduct(item gjson.Result) models.Product {
	p := models.Product{
		Name:        crawl.CleanText(item.Get("name").String()),
		Price:       item.Get("price").Float() / priceScale,
		Platform:    platformName,
		Rating:      item.Get("item_rating.rating_star").Float(),
		ReviewCount: int(item.Get("item_rating.rating_count.0").Int()),
		SalesVolume: int(item.Get("historical_sold").Int()),
		VendorName:  item.Get("shop_location").String(),
		ScrapedAt:   time.Now(),
	}
	if p.SalesVolume == 0 {
		p.SalesVolume = int(item.Get("sold").Int())
	}
	if before := item.Get("price_before_discount").Float(); before > 0 {
		p.OriginalPrice = before / priceScale
	}
	if img := item.Get("image").String(); img != "" {
		p.ImageURL = "https://cf.shopee.tw/file/" + img
	}
	shopID, itemID := item.Get("shopid").Int(), item.Get("itemid").Int()
	if shopID > 0 && itemID > 0 {
		p.ProductURL = fmt.Sprintf("%s/product/%d/%d", baseURL, shopID, itemID)
	}
	p.StockStatus = models.StockOutOfStock
	if item.Get("stock").Int() > 0 {
		p.StockStatus = models.StockAvailable
	}
	p.Specs = map[string]any{
		"shop_id":     shopID,
		"item_id":     itemID,
		"stock":       item.Get("stock").Int(),
		"liked_count": item.Get("liked_count").Int(),
	}
	if brand := item.Get("brand").String(); brand != "" {
		p.Specs["brand"] = brand
	}
	return p
}

func parseItemURL(rawURL string) (shopID, itemID string, ok bool) {
	m := itemURLPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", "", false
	}
	if m[1] != "" {
		return m[1], m[2], true
	}
	return m[3], m[4], true
}

func jsonHeaders() http.Header {
	return httputil.JSONAPIHeaders(baseURL + "/")
}

var _ platform.Crawler = (*Crawler)(nil)
