package facetcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/photosearch/internal/domain/search/facet"
)

func TestCache_RoundTrip(t *testing.T) {
	c, ms := newTestCache(t)
	ctx := context.Background()
	ids := []string{"b", "a"}

	if _, ok := c.Get(ctx, facet.KindTags, ids); ok {
		t.Fatal("expected miss on empty cache")
	}

	tags := facet.NewValues(facet.KindTags, []facet.ValueCount{{Value: "beach", Count: 2}})
	c.Put(ctx, facet.KindTags, ids, tags)

	got, ok := c.Get(ctx, facet.KindTags, []string{"a", "b"})
	if !ok {
		t.Fatal("expected hit for the same id set in another order")
	}
	if len(got.Values) != 1 || got.Values[0].Value != "beach" || got.Values[0].Count != 2 {
		t.Errorf("unexpected values: %+v", got.Values)
	}

	for k, ttl := range ms.ttls {
		if !strings.HasPrefix(k, KeyPrefix+"tags:") {
			t.Errorf("unexpected key %q", k)
		}
		if ttl != time.Minute {
			t.Errorf("ttl = %v", ttl)
		}
	}
}

func TestCache_DifferentIDSetMisses(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Put(ctx, facet.KindPeople, []string{"a"}, facet.NewValues(facet.KindPeople, []facet.ValueCount{{Value: "ines", Count: 1}}))

	if _, ok := c.Get(ctx, facet.KindPeople, []string{"a", "b"}); ok {
		t.Error("expected miss for a different id set")
	}
	if _, ok := c.Get(ctx, facet.KindTags, []string{"a"}); ok {
		t.Error("expected miss for a different kind")
	}
}

func TestCache_DateAndDuplicates(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	ids := []string{"x"}

	h := facet.BuildDateHierarchy([]time.Time{time.Date(2021, 5, 4, 0, 0, 0, 0, time.UTC)})
	c.Put(ctx, facet.KindDate, ids, facet.NewDate(h))
	c.Put(ctx, facet.KindDuplicates, ids, facet.NewDuplicates(facet.DuplicateStats{Exact: 2, Near: 1}))

	date, ok := c.Get(ctx, facet.KindDate, ids)
	if !ok || date.Date == nil || date.Date.Total() != 1 || date.Date.Years[0].Value != 2021 {
		t.Errorf("date = %+v ok=%v", date, ok)
	}
	dup, ok := c.Get(ctx, facet.KindDuplicates, ids)
	if !ok || dup.Duplicates == nil || dup.Duplicates.Exact != 2 || dup.Duplicates.Near != 1 {
		t.Errorf("duplicates = %+v ok=%v", dup, ok)
	}
}

func TestCache_StoreErrorsDegrade(t *testing.T) {
	c, ms := newTestCache(t)
	ctx := context.Background()

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("connection refused")
	}

	c.Put(ctx, facet.KindTags, []string{"a"}, facet.Empty(facet.KindTags))
	if _, ok := c.Get(ctx, facet.KindTags, []string{"a"}); ok {
		t.Error("expected miss on store error")
	}
}

func TestCache_CorruptPayload(t *testing.T) {
	c, ms := newTestCache(t)
	ctx := context.Background()

	ms.data[cacheKey(facet.KindDate, []string{"a"})] = []byte("{not json")
	if _, ok := c.Get(ctx, facet.KindDate, []string{"a"}); ok {
		t.Error("expected miss on corrupt payload")
	}

	ms.data[cacheKey(facet.KindDate, []string{"b"})] = []byte(`{"kind":"tags","values":[]}`)
	if _, ok := c.Get(ctx, facet.KindDate, []string{"b"}); ok {
		t.Error("expected miss on kind mismatch")
	}

	ms.data[cacheKey(facet.KindDuplicates, []string{"c"})] = []byte(`{"kind":"duplicates"}`)
	if _, ok := c.Get(ctx, facet.KindDuplicates, []string{"c"}); ok {
		t.Error("expected miss on missing payload")
	}
}

func TestCache_CountsHitsAndMisses(t *testing.T) {
	ms := &mockKVStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
	total := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_facet_cache_total"}, []string{"result"})
	c := New(ms, time.Minute, total, zap.NewNop())
	ctx := context.Background()

	c.Get(ctx, facet.KindTags, []string{"a"})
	c.Put(ctx, facet.KindTags, []string{"a"}, facet.Empty(facet.KindTags))
	c.Get(ctx, facet.KindTags, []string{"a"})
	c.Get(ctx, facet.KindTags, []string{"a"})

	if got := testutil.ToFloat64(total.WithLabelValues("miss")); got != 1 {
		t.Errorf("miss = %v, want 1", got)
	}
	if got := testutil.ToFloat64(total.WithLabelValues("hit")); got != 2 {
		t.Errorf("hit = %v, want 2", got)
	}
}
