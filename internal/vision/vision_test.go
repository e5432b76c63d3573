package vision

import (
	"context"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitKeywords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"comma separated", "無線耳機, 藍牙耳機, earbuds", []string{"無線耳機", "藍牙耳機", "earbuds"}},
		{"chinese enumeration comma", "保溫瓶、水壺", []string{"保溫瓶", "水壺"}},
		{"newlines and quotes", "\"鍵盤\"\n滑鼠.", []string{"鍵盤", "滑鼠"}},
		{"capped at four", "a,b,c,d,e,f", []string{"a", "b", "c", "d"}},
		{"empty reply", "  \n ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitKeywords(tt.input))
		})
	}
}

func TestKeywordsOfflineMode(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	r := New(&http.Client{}, log, Config{})

	image := []byte("fake image bytes")
	first, err := r.Keywords(context.Background(), image, "image/png")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// Same bytes always recognize as the same product.
	second, err := r.Keywords(context.Background(), image, "image/png")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Different bytes can land on a different category but never fail.
	_, err = r.Keywords(context.Background(), []byte("another image"), "")
	assert.NoError(t, err)
}

func TestOfflineKeywordsDeterministic(t *testing.T) {
	img := []byte{1, 2, 3}
	assert.Equal(t, offlineKeywords(img), offlineKeywords(img))
	assert.Len(t, offlineKeywords(img), 2)
}
