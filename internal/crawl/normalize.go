package crawl

import (
	"strconv"
	"strings"
)

// ParsePrice normalizes a currency string ("NT$1,299", "¥ 88.50") to a
// number. Everything except digits and the decimal point is stripped before
// parsing. Absence or parse failure yields 0.
func ParsePrice(s string) float64 {
	cleaned := keepDigitsAndDot(s)
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return f
}

// ParseSales expands sales-count shorthand to a number: "12.3k" → 12300,
// "1.2萬" / "1.2万" → 12000. Plain numbers pass through; anything
// unparseable yields 0.
func ParseSales(s string) int {
	if s == "" {
		return 0
	}
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "k"):
		return int(ParsePrice(lower) * 1000)
	case strings.Contains(lower, "萬"), strings.Contains(lower, "万"):
		return int(ParsePrice(lower) * 10000)
	}
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, lower)
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0
	}
	return n
}

// CleanText trims and collapses internal whitespace runs to single spaces.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CompleteURL resolves the URL forms marketplaces emit in listings:
// protocol-relative "//host/p" becomes https, relative paths are prefixed
// with the adapter's base URL, absolute URLs pass through unchanged.
func CompleteURL(base, raw string) string {
	switch {
	case raw == "":
		return ""
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "/"):
		return strings.TrimRight(base, "/") + raw
	default:
		return strings.TrimRight(base, "/") + "/" + raw
	}
}

func keepDigitsAndDot(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
