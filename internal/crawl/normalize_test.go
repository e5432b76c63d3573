package crawl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"plain integer", "1299", 1299},
		{"currency prefix with comma", "NT$1,299", 1299},
		{"yuan with decimals", "¥ 88.50", 88.50},
		{"surrounding text", "特價 $249 元", 249},
		{"empty", "", 0},
		{"no digits", "面議", 0},
		{"multiple dots unparseable", "1.2.3", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParsePrice(tt.input))
		})
	}
}

func TestParseSales(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"plain", "1234", 1234},
		{"with suffix text", "已售 532 件", 532},
		{"k shorthand", "12.3k", 12300},
		{"uppercase K", "5K", 5000},
		{"traditional wan", "1.2萬", 12000},
		{"simplified wan", "3万", 30000},
		{"empty", "", 0},
		{"garbage", "熱銷", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSales(tt.input))
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "iPhone 15 Pro", CleanText("  iPhone \n 15\t Pro  "))
	assert.Equal(t, "", CleanText("   \n\t "))
}

func TestCompleteURL(t *testing.T) {
	const base = "https://www.momoshop.com.tw"

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"empty", "", ""},
		{"absolute https", "https://example.com/p/1", "https://example.com/p/1"},
		{"absolute http", "http://example.com/p/1", "http://example.com/p/1"},
		{"protocol relative", "//img.momoshop.com.tw/a.jpg", "https://img.momoshop.com.tw/a.jpg"},
		{"root relative", "/goods/1234", base + "/goods/1234"},
		{"bare path", "goods/1234", base + "/goods/1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompleteURL(base, tt.raw))
		})
	}
}
