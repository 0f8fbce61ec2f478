// Package facetcache caches facet results in a key-value store.
package facetcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/photosearch/internal/db"
	"github.com/kailas-cloud/photosearch/internal/domain/search/facet"
)

// KeyPrefix namespaces facet cache entries.
const KeyPrefix = "photosearch:facet:"

// store is the consumer interface for the facet cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores facet results keyed on (kind, filtered id set).
// Entries for different id sets never share a key.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a facet cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns a cached result. Any store or decode error is a miss.
func (c *Cache) Get(ctx context.Context, kind facet.Kind, ids []string) (facet.Result, bool) {
	key := cacheKey(kind, ids)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached facet", zap.String("key", key), zap.Error(err))
		}
		c.inc("miss")
		return facet.Result{}, false
	}

	res, err := decode(kind, data)
	if err != nil {
		c.logger.Warn("Failed to parse cached facet", zap.String("key", key), zap.Error(err))
		c.inc("miss")
		return facet.Result{}, false
	}

	c.inc("hit")
	return res, true
}

// Put stores a result. Failures are logged and otherwise ignored.
func (c *Cache) Put(ctx context.Context, kind facet.Kind, ids []string, res facet.Result) {
	key := cacheKey(kind, ids)

	data, err := json.Marshal(res)
	if err != nil {
		c.logger.Warn("Failed to encode facet", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache facet", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(kind facet.Kind, ids []string) string {
	return KeyPrefix + facet.CacheKey(kind, ids)
}

func decode(kind facet.Kind, data []byte) (facet.Result, error) {
	if len(data) == 0 {
		return facet.Result{}, errors.New("empty payload")
	}
	var res facet.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return facet.Result{}, fmt.Errorf("unmarshal: %w", err)
	}
	if res.Kind != kind {
		return facet.Result{}, fmt.Errorf("kind mismatch: cached %q, want %q", res.Kind, kind)
	}
	switch kind {
	case facet.KindDate:
		if res.Date == nil {
			return facet.Result{}, errors.New("missing date payload")
		}
	case facet.KindDuplicates:
		if res.Duplicates == nil {
			return facet.Result{}, errors.New("missing duplicates payload")
		}
	default:
		if res.Values == nil {
			res.Values = []facet.ValueCount{}
		}
	}
	return res, nil
}
