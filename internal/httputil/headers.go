package httputil

import "net/http"

// BrowserHeaders returns common browser-like headers for HTML page fetches
// against Taiwanese marketplaces.
func BrowserHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "zh-TW,zh;q=0.9,en;q=0.8")
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("Connection", "keep-alive")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Sec-Fetch-User", "?1")
	return h
}

// JSONAPIHeaders returns headers for marketplace JSON endpoints that check
// the request origin (e.g. Shopee's search API).
func JSONAPIHeaders(referer string) http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("Accept-Language", "zh-TW,zh;q=0.9,en;q=0.8")
	h.Set("Accept-Encoding", "gzip, deflate, br")
	if referer != "" {
		h.Set("Referer", referer)
	}
	h.Set("X-Requested-With", "XMLHttpRequest")
	return h
}
