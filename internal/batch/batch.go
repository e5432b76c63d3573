// Package batch runs many keyword searches as one logical operation.
// Items are processed strictly sequentially — deliberately, to avoid
// hammering the upstream platforms — with a fixed pause between items.
package batch

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/junwei-lu/pricelens/internal/aggregate"
	"github.com/junwei-lu/pricelens/internal/models"
)

const (
	// MaxBatchSize caps a single batch; extra keywords are truncated.
	MaxBatchSize = 100

	defaultPause = 300 * time.Millisecond
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSearching Status = "searching"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Item tracks one keyword through the batch. Once terminal (completed or
// error) it is never revisited within a run.
type Item struct {
	ID      string           `json:"id"`
	Keyword string           `json:"keyword"`
	Status  Status           `json:"status"`
	Results []models.Product `json:"results,omitempty"`
	Err     string           `json:"error,omitempty"`
}

// Searcher is the aggregator capability the orchestrator needs.
type Searcher interface {
	SearchAll(ctx context.Context, keyword string, platforms []string, filters *models.SearchFilters) (map[string][]models.Product, error)
}

// Progress is a snapshot passed to the observer after every item
// transition. Done only counts settled items, so observers see
// monotonically non-decreasing values.
type Progress struct {
	Done  int
	Total int
}

// Observer receives a copy of the item after each status change.
type Observer func(item Item, p Progress)

// Summary is the terminal batch result. Keywords holds the keywords of
// successful items only; Items carries every attempt so callers can tell
// "search failed" apart from "searched, nothing found".
type Summary struct {
	Results   []models.Product `json:"results"`
	Keywords  []string         `json:"keywords"`
	Items     []Item           `json:"items"`
	Completed int              `json:"completed"`
	Failed    int              `json:"failed"`
}

type Orchestrator struct {
	searcher Searcher
	log      *logrus.Entry
	pause    time.Duration
	observe  Observer
}

type Option func(*Orchestrator)

// WithObserver registers a callback fired after every item transition.
func WithObserver(fn Observer) Option {
	return func(o *Orchestrator) { o.observe = fn }
}

// WithPause overrides the inter-item pause (tests use 0).
func WithPause(d time.Duration) Option {
	return func(o *Orchestrator) { o.pause = d }
}

func New(searcher Searcher, log *logrus.Entry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		searcher: searcher,
		log:      log.WithField("component", "batch"),
		pause:    defaultPause,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Prepare trims keywords, drops blanks and truncates to MaxBatchSize.
func Prepare(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if len(out) == MaxBatchSize {
			break
		}
		out = append(out, k)
	}
	return out
}

// Run processes the keywords one at a time. Each item fully settles before
// the next is dispatched; a failing item is isolated and the batch carries
// on. The returned summary reflects every item's terminal state.
func (o *Orchestrator) Run(ctx context.Context, keywords, platforms []string, filters *models.SearchFilters) (*Summary, error) {
	prepared := Prepare(keywords)

	items := make([]Item, len(prepared))
	for i, k := range prepared {
		items[i] = Item{ID: uuid.NewString(), Keyword: k, Status: StatusPending}
	}

	summary := &Summary{}
	for i := range items {
		if err := ctx.Err(); err != nil {
			summary.Items = items
			return summary, err
		}

		items[i].Status = StatusSearching
		o.notify(items[i], summary.Completed+summary.Failed, len(items))

		results, err := o.searcher.SearchAll(ctx, items[i].Keyword, platforms, filters)
		if err != nil {
			items[i].Status = StatusError
			items[i].Err = err.Error()
			summary.Failed++
			o.log.WithError(err).WithField("keyword", items[i].Keyword).Warn("batch item failed")
		} else {
			items[i].Status = StatusCompleted
			items[i].Results = flatten(results)
			summary.Completed++
			summary.Keywords = append(summary.Keywords, items[i].Keyword)
			summary.Results = append(summary.Results, items[i].Results...)
		}
		o.notify(items[i], summary.Completed+summary.Failed, len(items))

		if i < len(items)-1 && o.pause > 0 {
			select {
			case <-time.After(o.pause):
			case <-ctx.Done():
				summary.Items = items
				return summary, ctx.Err()
			}
		}
	}

	summary.Items = items
	return summary, nil
}

func (o *Orchestrator) notify(item Item, done, total int) {
	if o.observe == nil {
		return
	}
	o.observe(item, Progress{Done: done, Total: total})
}

func flatten(results map[string][]models.Product) []models.Product {
	return aggregate.Flatten(results)
}
