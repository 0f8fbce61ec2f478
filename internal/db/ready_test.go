package db

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPollReady_RetriesUntilUp(t *testing.T) {
	calls := 0
	err := PollReady(context.Background(), "catalog", time.Second, time.Millisecond, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestPollReady_Timeout(t *testing.T) {
	err := PollReady(context.Background(), "redis", 20*time.Millisecond, 5*time.Millisecond, func(context.Context) error {
		return errors.New("connection refused")
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if !strings.Contains(err.Error(), "redis") || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error lacks context: %v", err)
	}
}
