package platform

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrNotRegistered is returned when a platform key has no crawler.
var ErrNotRegistered = errors.New("platform not registered")

// Registry is a lookup table of crawlers keyed by lower-case platform id
// ("shopee", "pchome", "momo", "1688"). Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	crawlers map[string]Crawler
}

func NewRegistry() *Registry {
	return &Registry{crawlers: make(map[string]Crawler)}
}

func (r *Registry) Register(id string, c Crawler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.crawlers[strings.ToLower(id)] = c
}

func (r *Registry) Get(id string) (Crawler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.crawlers[strings.ToLower(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, id)
	}
	return c, nil
}

// Match returns the first registered crawler that claims the URL's domain,
// or nil when no adapter recognizes it. Iteration order is stable (sorted
// by platform id) so repeated calls resolve identically.
func (r *Registry) Match(rawURL string) Crawler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.idsLocked() {
		if c := r.crawlers[id]; c.MatchURL(rawURL) {
			return c
		}
	}
	return nil
}

// List returns the registered platform ids, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.idsLocked()
}

func (r *Registry) idsLocked() []string {
	ids := make([]string, 0, len(r.crawlers))
	for id := range r.crawlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Default is the process-wide registry populated at startup.
var Default = NewRegistry()

func Register(id string, c Crawler)  { Default.Register(id, c) }
func Get(id string) (Crawler, error) { return Default.Get(id) }
func List() []string                 { return Default.List() }
