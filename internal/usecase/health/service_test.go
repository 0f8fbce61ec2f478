package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockPinger struct {
	err   error
	block bool
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if m.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return m.err
}

func TestCheck(t *testing.T) {
	down := errors.New("conn refused")

	tests := []struct {
		name       string
		db         error
		cache      *mockPinger
		wantStatus Status
		wantCache  CheckResult
	}{
		{"all healthy", nil, &mockPinger{}, Healthy, CheckOK},
		{"cache down", nil, &mockPinger{err: down}, Degraded, CheckError},
		{"database down", down, &mockPinger{}, Unhealthy, CheckOK},
		{"both down", down, &mockPinger{err: down}, Unhealthy, CheckError},
		{"no cache", nil, nil, Healthy, ""},
		{"no cache, database down", down, nil, Unhealthy, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var cache Pinger
			if tc.cache != nil {
				cache = tc.cache
			}
			r := New(&mockPinger{err: tc.db}, cache).Check(context.Background())

			if r.Status != tc.wantStatus {
				t.Errorf("status = %q, want %q", r.Status, tc.wantStatus)
			}
			wantDB := CheckOK
			if tc.db != nil {
				wantDB = CheckError
			}
			if r.Checks["database"] != wantDB {
				t.Errorf("database = %q, want %q", r.Checks["database"], wantDB)
			}
			got, ok := r.Checks["cache"]
			if tc.wantCache == "" {
				if ok {
					t.Error("cache check should be absent when cache is nil")
				}
			} else if got != tc.wantCache {
				t.Errorf("cache = %q, want %q", got, tc.wantCache)
			}
		})
	}
}

func TestCheck_SlowComponentTimesOut(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{block: true}).WithTimeout(20 * time.Millisecond)

	start := time.Now()
	r := svc.Check(context.Background())
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("check took %v", elapsed)
	}
	if r.Status != Degraded || r.Checks["cache"] != CheckError || r.Checks["database"] != CheckOK {
		t.Errorf("report = %+v", r)
	}
}
