package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junwei-lu/pricelens/internal/models"
)

type fakeSearcher struct {
	calls   []string
	failOn  map[string]error
	perCall int
}

func (f *fakeSearcher) SearchAll(_ context.Context, keyword string, _ []string, _ *models.SearchFilters) (map[string][]models.Product, error) {
	f.calls = append(f.calls, keyword)
	if err, ok := f.failOn[keyword]; ok {
		return nil, err
	}
	n := f.perCall
	if n == 0 {
		n = 2
	}
	products := make([]models.Product, n)
	for i := range products {
		products[i] = models.Product{
			Name:       fmt.Sprintf("%s 款式%d", keyword, i),
			Price:      float64(100 + i),
			ProductURL: fmt.Sprintf("https://example.com/%s/%d", keyword, i),
			Platform:   "Test",
		}
	}
	return map[string][]models.Product{"test": products}, nil
}

func testLog() *logrus.Entry {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(log)
}

func TestPrepare(t *testing.T) {
	t.Run("trims and drops blanks", func(t *testing.T) {
		out := Prepare([]string{" 耳機 ", "", "   ", "鍵盤"})
		assert.Equal(t, []string{"耳機", "鍵盤"}, out)
	})

	t.Run("caps at the batch limit", func(t *testing.T) {
		in := make([]string, 150)
		for i := range in {
			in[i] = fmt.Sprintf("kw%d", i)
		}
		out := Prepare(in)
		require.Len(t, out, MaxBatchSize)
		assert.Equal(t, "kw0", out[0])
		assert.Equal(t, "kw99", out[99])
	})
}

func TestRunIsolatesFailures(t *testing.T) {
	searcher := &fakeSearcher{failOn: map[string]error{"鍵盤": errors.New("no platforms")}}
	orch := New(searcher, testLog(), WithPause(0))

	summary, err := orch.Run(context.Background(), []string{"耳機", "鍵盤", "水壺"}, []string{"test"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"耳機", "鍵盤", "水壺"}, searcher.calls)
	assert.Equal(t, 2, summary.Completed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, []string{"耳機", "水壺"}, summary.Keywords)
	assert.Len(t, summary.Results, 4)

	require.Len(t, summary.Items, 3)
	assert.Equal(t, StatusCompleted, summary.Items[0].Status)
	assert.Equal(t, StatusError, summary.Items[1].Status)
	assert.Contains(t, summary.Items[1].Err, "no platforms")
	assert.Equal(t, StatusCompleted, summary.Items[2].Status)
}

func TestRunObserverSeesMonotonicProgress(t *testing.T) {
	var transitions []string
	orch := New(&fakeSearcher{}, testLog(), WithPause(0), WithObserver(func(item Item, p Progress) {
		transitions = append(transitions, fmt.Sprintf("%s:%s:%d", item.Keyword, item.Status, p.Done))
	}))

	_, err := orch.Run(context.Background(), []string{"a", "b"}, []string{"test"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"a:searching:0", "a:completed:1",
		"b:searching:1", "b:completed:2",
	}, transitions)
}

func TestRunTruncatesOversizedBatch(t *testing.T) {
	in := make([]string, 120)
	for i := range in {
		in[i] = fmt.Sprintf("kw%d", i)
	}
	searcher := &fakeSearcher{perCall: 1}
	orch := New(searcher, testLog(), WithPause(0))

	summary, err := orch.Run(context.Background(), in, []string{"test"}, nil)
	require.NoError(t, err)
	assert.Len(t, searcher.calls, MaxBatchSize)
	assert.Len(t, summary.Items, MaxBatchSize)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	searcher := &fakeSearcher{}
	orch := New(searcher, testLog(), WithObserver(func(item Item, p Progress) {
		if item.Status == StatusCompleted && strings.HasPrefix(item.Keyword, "a") {
			cancel()
		}
	}))

	summary, err := orch.Run(ctx, []string{"a", "b", "c"}, []string{"test"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	// Only the first item ran before cancellation hit the pause.
	assert.Equal(t, []string{"a"}, searcher.calls)
	assert.Equal(t, 1, summary.Completed)
}

func TestRunItemIDsAreUnique(t *testing.T) {
	orch := New(&fakeSearcher{}, testLog(), WithPause(0))
	summary, err := orch.Run(context.Background(), []string{"a", "b", "c"}, []string{"test"}, nil)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, item := range summary.Items {
		assert.NotEmpty(t, item.ID)
		assert.False(t, seen[item.ID], "duplicate item id")
		seen[item.ID] = true
	}
}
