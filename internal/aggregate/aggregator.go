// Package aggregate fans a search out to the registered platform adapters
// and merges their results. One slow or failing adapter never sinks the
// batch: its platform entry simply comes back empty.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/junwei-lu/pricelens/internal/models"
	"github.com/junwei-lu/pricelens/internal/platform"
	"github.com/junwei-lu/pricelens/internal/rank"
)

var (
	// ErrNoPlatforms means none of the requested platform keys resolved to
	// a registered adapter.
	ErrNoPlatforms = errors.New("no requested platform is registered")

	// ErrUnsupportedURL means no adapter claims the product URL's domain.
	ErrUnsupportedURL = errors.New("unsupported platform URL")
)

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

type Aggregator struct {
	registry *platform.Registry
	log      *logrus.Entry
	cache    *gocache.Cache
}

type Option func(*Aggregator)

// WithCache enables in-memory caching of per-search merged results.
func WithCache() Option {
	return func(a *Aggregator) {
		a.cache = gocache.New(cacheTTL, cacheCleanup)
	}
}

func New(registry *platform.Registry, log *logrus.Entry, opts ...Option) *Aggregator {
	a := &Aggregator{
		registry: registry,
		log:      log.WithField("component", "aggregator"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SearchAll dispatches one adapter call per requested platform, concurrently,
// and returns a map with exactly one entry per resolved platform. An adapter
// failure is logged and recorded as an empty slice; an unknown platform key
// is logged and skipped. The call itself fails only when no platform at all
// resolves.
func (a *Aggregator) SearchAll(ctx context.Context, keyword string, platforms []string, filters *models.SearchFilters) (map[string][]models.Product, error) {
	if cached, ok := a.cacheGet(keyword, platforms, filters); ok {
		return cached, nil
	}

	type resolved struct {
		id      string
		crawler platform.Crawler
	}
	var targets []resolved
	for _, id := range platforms {
		c, err := a.registry.Get(id)
		if err != nil {
			a.log.WithField("platform", id).Warn("crawler not found, skipping platform")
			continue
		}
		targets = append(targets, resolved{id: strings.ToLower(id), crawler: c})
	}
	if len(targets) == 0 {
		return nil, ErrNoPlatforms
	}

	results := make(map[string][]models.Product, len(targets))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		g.Go(func() error {
			products, err := t.crawler.Search(gctx, keyword, filters)
			if err != nil {
				a.log.WithError(err).WithFields(logrus.Fields{
					"platform": t.id,
					"keyword":  keyword,
				}).Warn("platform search failed")
				products = nil
			}
			mu.Lock()
			results[t.id] = products
			mu.Unlock()
			platform.ReportProgress(gctx, fmt.Sprintf("%s: %d results", t.id, len(products)))
			// Adapter errors are absorbed here so one platform's failure
			// never cancels the siblings.
			return nil
		})
	}
	_ = g.Wait()

	// Every resolved platform gets an entry, failed ones included.
	for _, t := range targets {
		if results[t.id] == nil {
			results[t.id] = []models.Product{}
		}
	}

	a.cachePut(keyword, platforms, filters, results)
	return results, nil
}

// ProductFromURL detects the originating platform by matching the URL
// against each adapter's domain claim, then delegates the detail fetch.
func (a *Aggregator) ProductFromURL(ctx context.Context, rawURL string) (*models.Product, error) {
	c := a.registry.Match(rawURL)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
	}
	return c.ProductDetails(ctx, rawURL)
}

// SearchByURL resolves the product behind the URL, searches the other
// platforms for it by name, and returns the combined set with the resolved
// product first.
func (a *Aggregator) SearchByURL(ctx context.Context, rawURL string, platforms []string) ([]models.Product, error) {
	product, err := a.ProductFromURL(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("no product found at %s", rawURL)
	}

	others := make([]string, 0, len(platforms))
	for _, id := range platforms {
		if !strings.EqualFold(id, product.Platform) {
			others = append(others, id)
		}
	}

	combined := []models.Product{*product}
	if len(others) == 0 {
		return combined, nil
	}

	results, err := a.SearchAll(ctx, product.Name, others, nil)
	if err != nil {
		// The resolved product alone is still a useful answer.
		a.log.WithError(err).Warn("cross-platform search for URL product failed")
		return combined, nil
	}
	return append(combined, Flatten(results)...), nil
}

// ComparePrices is the canonical "cheapest first" view: aggregate, flatten,
// sort ascending by price.
func (a *Aggregator) ComparePrices(ctx context.Context, name string, platforms []string) ([]models.Product, error) {
	results, err := a.SearchAll(ctx, name, platforms, nil)
	if err != nil {
		return nil, err
	}
	return rank.Rank(Flatten(results), models.SortByPrice, ""), nil
}

// Flatten merges a per-platform result map into one slice, platforms in
// sorted key order so output is deterministic.
func Flatten(results map[string][]models.Product) []models.Product {
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var all []models.Product
	for _, k := range keys {
		all = append(all, results[k]...)
	}
	return all
}

func (a *Aggregator) cacheGet(keyword string, platforms []string, filters *models.SearchFilters) (map[string][]models.Product, bool) {
	if a.cache == nil {
		return nil, false
	}
	v, ok := a.cache.Get(cacheKey(keyword, platforms, filters))
	if !ok {
		return nil, false
	}
	return v.(map[string][]models.Product), true
}

func (a *Aggregator) cachePut(keyword string, platforms []string, filters *models.SearchFilters, results map[string][]models.Product) {
	if a.cache == nil {
		return
	}
	a.cache.Set(cacheKey(keyword, platforms, filters), results, gocache.DefaultExpiration)
}

func cacheKey(keyword string, platforms []string, filters *models.SearchFilters) string {
	sorted := append([]string(nil), platforms...)
	sort.Strings(sorted)
	key := keyword + "|" + strings.Join(sorted, ",")
	if filters != nil {
		key += fmt.Sprintf("|%s|%v-%v|s%d|r%v|p%d|l%d",
			filters.SortBy, filters.PriceMin, filters.PriceMax,
			filters.MinSales, filters.MinRating, filters.Page, filters.Limit)
	}
	return key
}
