// Package pchome implements the PChome 24h adapter. Listings are parsed out
// of the search result HTML; the site serves both the legacy prod_item and
// the newer c-prodInfo markup depending on rollout, so selectors cover both.
package pchome

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/junwei-lu/pricelens/internal/crawl"
	"github.com/junwei-lu/pricelens/internal/httputil"
	"github.com/junwei-lu/pricelens/internal/models"
	"github.com/junwei-lu/pricelens/internal/platform"
)

const (
	platformName = "PChome"
	baseURL      = "https://24h.pchome.com.tw"
)

var syntheticProfile = crawl.Profile{
	Platform:     platformName,
	BaseURL:      baseURL,
	Vendors:      []string{"PChome 24h購物"},
	FreeShipping: true,
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
	return strings.Contains(rawURL, "pchome.com.tw")
}

func (c *Crawler) Search(ctx context.Context, keyword string, filters *models.SearchFilters) ([]models.Product, error) {
	if c.synthetic {
		n := 20
		if filters != nil && filters.Limit > 0 {
			n = filters.Limit
		}
		return crawl.ApplyFilters(crawl.Generate(syntheticProfile, keyword, n), filters), nil
	}

	var products []models.Product
	err := crawl.Retry(ctx, 3, 2*time.Second, func() error {
		body, err := crawl.Fetch(ctx, c.client, c.searchURL(keyword, filters), httputil.BrowserHeaders())
		if err != nil {
			return err
		}
		products, err = parseSearch(body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("pchome search %q: %w", keyword, err)
	}
	return products, nil
}

func (c *Crawler) ProductDetails(ctx context.Context, rawURL string) (*models.Product, error) {
	if c.synthetic {
		items := crawl.Generate(syntheticProfile, rawURL, 1)
		items[0].ProductURL = rawURL
		return &items[0], nil
	}

	var product *models.Product
	err := crawl.Retry(ctx, 3, 2*time.Second, func() error {
		body, err := crawl.Fetch(ctx, c.client, rawURL, httputil.BrowserHeaders())
		if err != nil {
			return err
		}
		product, err = parseDetails(body, rawURL)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("pchome details %s: %w", rawURL, err)
	}
	return product, nil
}

// searchURL maps SortBy to PChome's sort path segments: price/asc, sale/dc
// (sales descending) or rnk/dc (relevance rank).
func (c *Crawler) searchURL(keyword string, filters *models.SearchFilters) string {
	sortParam := "rnk/dc"
	if filters != nil {
		switch filters.SortBy {
		case models.SortByPrice:
			sortParam = "price/asc"
		case models.SortBySales:
			sortParam = "sale/dc"
		}
	}
	return fmt.Sprintf("%s/search/v3.3/?q=%s&sort=%s", baseURL, url.QueryEscape(keyword), sortParam)
}

func parseSearch(body []byte) ([]models.Product, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var products []models.Product
	doc.Find("#ProductContainer .prod_item, .c-prodInfo").Each(func(_ int, sel *goquery.Selection) {
		p := models.Product{
			Name:        crawl.CleanText(sel.Find(".prod_name, .c-prodInfo__title").Text()),
			Price:       crawl.ParsePrice(sel.Find(".price, .c-prodInfo__price").First().Text()),
			Platform:    platformName,
			StockStatus: models.StockAvailable,
			ScrapedAt:   time.Now(),
		}
		if orig := sel.Find(".price_org, .c-prodInfo__price--original").Text(); orig != "" {
			p.OriginalPrice = crawl.ParsePrice(orig)
		}
		if href, ok := sel.Find("a").First().Attr("href"); ok {
			p.ProductURL = crawl.CompleteURL(baseURL, href)
		}
		img := sel.Find("img").First()
		src, ok := img.Attr("src")
		if !ok || src == "" {
			src, _ = img.Attr("data-src")
		}
		p.ImageURL = crawl.CompleteURL(baseURL, src)

		if p.Valid() {
			products = append(products, p)
		}
	})
	return products, nil
}

func parseDetails(body []byte, rawURL string) (*models.Product, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	p := models.Product{
		Name:        crawl.CleanText(doc.Find("#ProdInfo h1, .prod-name").First().Text()),
		Price:       crawl.ParsePrice(doc.Find("#ProdInfo .price, .prod-price").First().Text()),
		ProductURL:  rawURL,
		Platform:    platformName,
		StockStatus: models.StockAvailable,
		ScrapedAt:   time.Now(),
	}
	if orig := doc.Find(".price_org, .prod-price-original").Text(); orig != "" {
		p.OriginalPrice = crawl.ParsePrice(orig)
	}
	if src, ok := doc.Find("#ProdInfo img, .prod-img img").First().Attr("src"); ok {
		p.ImageURL = crawl.CompleteURL(baseURL, src)
	}

	specs := map[string]any{}
	doc.Find(".prod-spec-table tr, .spec-item").Each(func(_ int, row *goquery.Selection) {
		key := crawl.CleanText(row.Find("th, .spec-name").Text())
		value := crawl.CleanText(row.Find("td, .spec-value").Text())
		if key != "" && value != "" {
			specs[key] = value
		}
	})
	if len(specs) > 0 {
		p.Specs = specs
	}

	if !p.Valid() {
		return nil, nil
	}
	return &p, nil
}

var _ platform.Crawler = (*Crawler)(nil)
