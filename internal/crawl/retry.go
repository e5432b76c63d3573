package crawl

import (
	"context"
	"fmt"
	"time"
)

// Retry runs fn up to attempts times with a linearly increasing pause
// between failures (delay, 2*delay, ...). The last error is surfaced when
// every attempt fails. Context cancellation stops the wait early.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if i < attempts-1 {
			select {
			case <-time.After(time.Duration(i+1) * delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", attempts, lastErr)
}
