// Package alibaba implements the 1688 wholesale adapter. Search results
// live in a window.__GLOBAL_DATA__ blob embedded in the page; when the
// blob is missing (login walls, region blocks) a coarse HTML scan runs,
// and a transport failure degrades to synthetic listings — 1688 is the
// least reachable of the supported platforms.
package alibaba

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
	"golang.org/x/net/html"

	"github.com/junwei-lu/pricelens/internal/crawl"
	"github.com/junwei-lu/pricelens/internal/httputil"
	"github.com/junwei-lu/pricelens/internal/models"
	"github.com/junwei-lu/pricelens/internal/platform"
)

const (
	platformName = "1688"
	baseURL      = "https://s.1688.com"
	maxListings  = 20
)

var (
	globalDataPattern  = regexp.MustCompile(`window\.__GLOBAL_DATA__\s*=\s*(\{[\s\S]*?\});`)
	initialDataPattern = regexp.MustCompile(`window\.__INITIAL_DATA__\s*=\s*(\{[\s\S]*?\});`)
	titleAttrPattern   = regexp.MustCompile(`title="([^"]+)"`)
	yuanPricePattern   = regexp.MustCompile(`¥\s*([\d,.]+)`)
)

var syntheticProfile = crawl.Profile{
	Platform: platformName,
	BaseURL:  "https://www.1688.com",
	Vendors:  []string{"義烏小商品批發", "深圳電子供應商", "廣州服飾工廠", "東莞五金製造"},
}

type Crawler struct {
	client    *http.Client
	log       *logrus.Entry
	synthetic bool
}

type Options struct {
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
	return strings.Contains(rawURL, "1688.com")
}

func (c *Crawler) Search(ctx context.Context, keyword string, filters *models.SearchFilters) ([]models.Product, error) {
	n := maxListings
	if filters != nil && filters.Limit > 0 {
		n = filters.Limit
	}
	if c.synthetic {
		return crawl.ApplyFilters(crawl.Generate(syntheticProfile, keyword, n), filters), nil
	}

	body, err := crawl.Fetch(ctx, c.client, c.searchURL(keyword, filters), httputil.BrowserHeaders())
	if err != nil {
		c.log.WithError(err).Warn("1688 unreachable, serving synthetic listings")
		return crawl.ApplyFilters(crawl.Generate(syntheticProfile, keyword, n), filters), nil
	}
	return parseSearch(body), nil
}

func (c *Crawler) ProductDetails(ctx context.Context, rawURL string) (*models.Product, error) {
	if c.synthetic {
		items := crawl.Generate(syntheticProfile, rawURL, 1)
		items[0].ProductURL = rawURL
		return &items[0], nil
	}

	body, err := crawl.Fetch(ctx, c.client, rawURL, httputil.BrowserHeaders())
	if err != nil {
		return nil, fmt.Errorf("1688 details %s: %w", rawURL, err)
	}
	return parseDetails(body, rawURL), nil
}

// searchURL maps SortBy to 1688's sortType values and passes price bounds
// through as startPrice/endPrice, the only platform with native support.
func (c *Crawler) searchURL(keyword string, filters *models.SearchFilters) string {
	u := fmt.Sprintf("%s/selloffer/offer_search.htm?keywords=%s", baseURL, url.QueryEscape(keyword))
	if filters == nil {
		return u
	}
	switch filters.SortBy {
	case models.SortByPrice:
		u += "&sortType=price_asc"
	case models.SortBySales:
		u += "&sortType=monthvolume"
	}
	if filters.PriceMin > 0 {
		u += fmt.Sprintf("&startPrice=%v", filters.PriceMin)
	}
	if filters.PriceMax > 0 {
		u += fmt.Sprintf("&endPrice=%v", filters.PriceMax)
	}
	return u
}

func parseSearch(body []byte) []models.Product {
	blob := scriptJSON(body, globalDataPattern)
	if blob == "" {
		return scanListings(string(body))
	}

	var products []models.Product
	gjson.Get(blob, "data.offerList").ForEach(func(_, offer gjson.Result) bool {
		if len(products) >= maxListings {
			return false
		}
		p := models.Product{
			Name:        crawl.CleanText(firstString(offer, "subject", "title")),
			Price:       crawl.ParsePrice(firstString(offer, "priceInfo.price", "price")),
			ProductURL:  crawl.CompleteURL("https://www.1688.com", firstString(offer, "detailUrl", "url")),
			ImageURL:    crawl.CompleteURL("https://www.1688.com", firstString(offer, "imgUrl", "image")),
			Platform:    platformName,
			SalesVolume: int(offer.Get("monthSoldQuantity").Int()),
			VendorName:  firstString(offer, "company.name", "sellerName"),
			ScrapedAt:   time.Now(),
		}
		if orig := offer.Get("priceInfo.originalPrice").String(); orig != "" {
			p.OriginalPrice = crawl.ParsePrice(orig)
		}
		p.StockStatus = models.StockOutOfStock
		if offer.Get("canBookCount").Int() > 0 {
			p.StockStatus = models.StockAvailable
		}
		p.Specs = map[string]any{
			"min_order_quantity": firstString(offer, "minOrderQuantity", "beginAmount"),
			"supplier_type":      offer.Get("company.supplierType").String(),
		}
		if p.Valid() {
			products = append(products, p)
		}
		return true
	})
	return products
}

func parseDetails(body []byte, rawURL string) *models.Product {
	blob := scriptJSON(body, initialDataPattern)
	if blob == "" {
		return nil
	}

	offer := gjson.Get(blob, "offerDetail")
	if !offer.Exists() {
		offer = gjson.Get(blob, "productInfo")
	}
	p := models.Product{
		Name:        crawl.CleanText(firstString(offer, "subject", "title")),
		Price:       crawl.ParsePrice(firstString(offer, "priceInfo.price", "price")),
		ProductURL:  rawURL,
		ImageURL:    crawl.CompleteURL("https://www.1688.com", firstString(offer, "image.0", "imgUrl")),
		Platform:    platformName,
		SalesVolume: int(offer.Get("monthSoldQuantity").Int()),
		VendorName:  firstString(offer, "sellerInfo.name", "company.name"),
		ScrapedAt:   time.Now(),
	}
	if orig := offer.Get("priceInfo.originalPrice").String(); orig != "" {
		p.OriginalPrice = crawl.ParsePrice(orig)
	}
	p.StockStatus = models.StockOutOfStock
	if offer.Get("canBookCount").Int() > 0 {
		p.StockStatus = models.StockAvailable
	}
	if !p.Valid() {
		return nil
	}
	return &p
}

// scriptJSON walks the document's <script> nodes and extracts the first
// embedded JSON object matching the given assignment pattern.
func scriptJSON(body []byte, pattern *regexp.Regexp) string {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return ""
	}

	var found string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "script" && n.FirstChild != nil {
			if m := pattern.FindStringSubmatch(n.FirstChild.Data); m != nil {
				found = m[1]
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

// scanListings is the coarse fallback when no data blob is present: pair up
// title attributes with yuan-denominated prices in document order.
func scanListings(page string) []models.Product {
	titles := titleAttrPattern.FindAllStringSubmatch(page, -1)
	prices := yuanPricePattern.FindAllStringSubmatch(page, -1)

	n := len(titles)
	if len(prices) < n {
		n = len(prices)
	}
	if n > 10 {
		n = 10
	}

	var products []models.Product
	for i := 0; i < n; i++ {
		p := models.Product{
			Name:        crawl.CleanText(titles[i][1]),
			Price:       crawl.ParsePrice(prices[i][1]),
			ProductURL:  "https://www.1688.com/",
			Platform:    platformName,
			StockStatus: models.StockAvailable,
			ScrapedAt:   time.Now(),
		}
		if p.Valid() {
			products = append(products, p)
		}
	}
	return products
}

func firstString(r gjson.Result, paths ...string) string {
	for _, path := range paths {
		if v := r.Get(path).String(); v != "" {
			return v
		}
	}
	return ""
}

var _ platform.Crawler = (*Crawler)(nil)
