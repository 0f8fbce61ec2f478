package db

import (
	"context"
	"fmt"
	"time"
)

// PollReady calls ping immediately and then every interval until it succeeds
// or timeout expires. The last ping error is reported with the timeout.
func PollReady(ctx context.Context, name string, timeout, interval time.Duration, ping func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for {
		if lastErr = ping(ctx); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for %s: %w (last error: %v)", name, ctx.Err(), lastErr)
		case <-ticker.C:
		}
	}
}
