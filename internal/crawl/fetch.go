package crawl

import (
	"context"
	"fmt"
	"net/http"

	"github.com/junwei-lu/pricelens/internal/httputil"
)

// Fetch issues a GET with the given headers and returns the decompressed
// body. Non-200 responses are transport-level failures.
func Fetch(ctx context.Context, client *http.Client, rawURL string, headers http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header[k] = v
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}
	return httputil.ReadBody(resp)
}
