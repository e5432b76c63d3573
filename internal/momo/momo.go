// Package momo implements the momo購物網 adapter (HTML listing pages).
package momo

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
	platformName = "Momo"
	baseURL      = "https://www.momoshop.com.tw"
)

var syntheticProfile = crawl.Profile{
	Platform: platformName,
	BaseURL:  baseURL,
	Vendors:  []string{"momo摩天商城", "momo自營"},
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
	return strings.Contains(rawURL, "momoshop.com.tw")
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
		return nil, fmt.Errorf("momo search %q: %w", keyword, err)
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
		return nil, fmt.Errorf("momo details %s: %w", rawURL, err)
	}
	return product, nil
}

// searchURL maps SortBy to momo's searchType values.
func (c *Crawler) searchURL(keyword string, filters *models.SearchFilters) string {
	searchType := "relevant"
	page := 1
	if filters != nil {
		switch filters.SortBy {
		case models.SortByPrice:
			searchType = "priceAsc"
		case models.SortBySales:
			searchType = "salesQty"
		}
		if filters.Page > 0 {
			page = filters.Page
		}
	}
	return fmt.Sprintf("%s/search/searchShop.jsp?keyword=%s&searchType=%s&curPage=%d",
		baseURL, url.QueryEscape(keyword), searchType, page)
}

func parseSearch(body []byte) ([]models.Product, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var products []models.Product
	doc.Find(".listArea .productInfo, .goodsItemLi").Each(func(_ int, sel *goquery.Selection) {
		p := models.Product{
			Name:        crawl.CleanText(sel.Find(".prdName, h3").Text()),
			Price:       crawl.ParsePrice(sel.Find(".price, .money").First().Text()),
			Platform:    platformName,
			SalesVolume: crawl.ParseSales(sel.Find(".sellCount, .sales").Text()),
			StockStatus: models.StockAvailable,
			ScrapedAt:   time.Now(),
		}
		if orig := sel.Find(".del, .originalPrice").Text(); orig != "" {
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
		Name:        crawl.CleanText(doc.Find(".prdName, .prodInfoName h1").First().Text()),
		Price:       crawl.ParsePrice(doc.Find(".price, .prdPrice").First().Text()),
		ProductURL:  rawURL,
		Platform:    platformName,
		Rating:      crawl.ParsePrice(doc.Find(".rating, .score").First().Text()),
		ReviewCount: crawl.ParseSales(doc.Find(".commentNum, .reviewCount").First().Text()),
		StockStatus: models.StockAvailable,
		ScrapedAt:   time.Now(),
	}
	if orig := doc.Find(".del, .originalPrice").Text(); orig != "" {
		p.OriginalPrice = crawl.ParsePrice(orig)
	}
	if src, ok := doc.Find(".mainPic img, .prodImg img").First().Attr("src"); ok {
		p.ImageURL = crawl.CompleteURL(baseURL, src)
	}

	specs := map[string]any{}
	doc.Find(".specification tr, .prodSpec li").Each(func(_ int, row *goquery.Selection) {
		key := crawl.CleanText(row.Find("th, .specName").Text())
		value := crawl.CleanText(row.Find("td, .specValue").Text())
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
