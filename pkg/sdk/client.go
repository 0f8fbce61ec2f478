package photosearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/photosearch/internal/db"
	"github.com/kailas-cloud/photosearch/internal/db/memory"
	"github.com/kailas-cloud/photosearch/internal/db/postgres"
	"github.com/kailas-cloud/photosearch/internal/db/query"
	dbRedis "github.com/kailas-cloud/photosearch/internal/db/redis"
	"github.com/kailas-cloud/photosearch/internal/domain/search/request"
	"github.com/kailas-cloud/photosearch/internal/domain/search/result"
	"github.com/kailas-cloud/photosearch/internal/repository/facetcache"
	"github.com/kailas-cloud/photosearch/internal/repository/neighbors"
	searchrepo "github.com/kailas-cloud/photosearch/internal/repository/search"
	facetuc "github.com/kailas-cloud/photosearch/internal/usecase/facet"
	healthuc "github.com/kailas-cloud/photosearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/photosearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (result.Response, error)
}

type migrator interface {
	Migrate(ctx context.Context) ([]string, error)
}

// Client is the photosearch SDK entry point. It is safe for concurrent use.
type Client struct {
	store     db.Store
	redis     *dbRedis.Store
	migrator  migrator // nil for the embedded catalog
	searchSvc searchUseCase
	healthSvc healthUseCase
	limits    request.Limits
	obs       *observer
}

// New creates a Client and connects to the configured stores.
// The provided context is used for the initial readiness checks.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c := &Client{obs: obs, limits: request.Limits{
		DefaultLimit: cfg.defaultLimit,
		MaxLimit:     cfg.maxLimit,
	}}
	if err := c.connect(ctx, cfg); err != nil {
		c.Close()
		return nil, err
	}
	c.wire(cfg)
	return c, nil
}

func (cfg *clientConfig) validate() error {
	switch {
	case cfg.postgresURL == "" && !cfg.embedded:
		return errors.New("photosearch: catalog required (use WithPostgres or WithEmbedded)")
	case cfg.postgresURL != "" && cfg.embedded:
		return errors.New("photosearch: WithPostgres and WithEmbedded are mutually exclusive")
	case cfg.facetCacheTTL > 0 && len(cfg.redisAddrs) == 0:
		return errors.New("photosearch: WithFacetCache requires WithRedis")
	}
	switch cfg.neighbors {
	case "", NeighborsCatalog:
	case NeighborsRedis:
		if len(cfg.redisAddrs) == 0 {
			return errors.New("photosearch: redis neighbors require WithRedis")
		}
		if cfg.neighborIndex == "" {
			return errors.New("photosearch: redis neighbors require an index name")
		}
	default:
		return fmt.Errorf("photosearch: unknown neighbor backend %q", cfg.neighbors)
	}
	return nil
}

func (c *Client) connect(ctx context.Context, cfg *clientConfig) error {
	if cfg.embedded {
		mem := memory.New()
		if cfg.fixtures != nil {
			if err := mem.LoadFixtures(cfg.fixtures); err != nil {
				return fmt.Errorf("photosearch: %w", err)
			}
		}
		c.store = mem
	} else {
		pg, err := postgres.NewStore(postgres.Config{URL: cfg.postgresURL, MaxOpenConns: cfg.maxOpenConns})
		if err != nil {
			return fmt.Errorf("photosearch: create postgres store: %w", err)
		}
		c.store = pg
		c.migrator = pg
	}
	if err := c.store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		return fmt.Errorf("photosearch: database not ready: %w", err)
	}

	if len(cfg.redisAddrs) == 0 {
		return nil
	}
	rs, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.redisAddrs, Password: cfg.redisPassword})
	if err != nil {
		return fmt.Errorf("photosearch: create redis store: %w", err)
	}
	c.redis = rs
	if err := rs.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		return fmt.Errorf("photosearch: redis not ready: %w", err)
	}
	return nil
}

func (c *Client) wire(cfg *clientConfig) {
	logger := zap.NewNop()

	var cache facetuc.Cache
	if cfg.facetCacheTTL > 0 {
		cache = facetcache.New(c.redis, cfg.facetCacheTTL, nil, logger)
	}
	engine := facetuc.New(c.store, cache, c.obs.facetMetrics(), logger)

	var finder searchuc.NeighborFinder
	switch cfg.neighbors {
	case NeighborsCatalog:
		if vs, ok := c.store.(db.VectorSearcher); ok {
			finder = neighbors.New(vs, cfg.neighborIndex)
		}
	case NeighborsRedis:
		finder = neighbors.New(c.redis, cfg.neighborIndex)
	}

	repo := searchrepo.New(query.Compiler{MaxValues: cfg.maxFilterValues})
	c.searchSvc = searchuc.New(c.store, repo, engine, finder, searchuc.NeighborLimits{
		DefaultK: cfg.defaultK,
		MaxK:     cfg.maxK,
	}, logger)

	var cachePinger healthuc.Pinger
	if c.redis != nil {
		cachePinger = c.redis
	}
	c.healthSvc = healthuc.New(c.store, cachePinger)
}

// Close releases all resources.
func (c *Client) Close() {
	if c.redis != nil {
		c.redis.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Search runs one search. Request errors (ErrMalformedCursor,
// ErrFilterTooLarge, ErrInvalidRequest) are returned before any I/O.
func (c *Client) Search(ctx context.Context, req Request) (resp Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	r, err := request.New(toParams(&req), c.limits)
	if err != nil {
		return Response{}, err
	}
	out, err := c.searchSvc.Search(ctx, &r)
	if err != nil {
		return Response{}, fmt.Errorf("search: %w", err)
	}
	return fromResponse(&out), nil
}

// Migrate applies pending catalog migrations and returns the applied versions.
// It is a no-op for the embedded catalog.
func (c *Client) Migrate(ctx context.Context) (applied []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("migrate", start, err) }()

	if c.migrator == nil {
		return nil, nil
	}
	applied, err = c.migrator.Migrate(ctx)
	if err != nil {
		return applied, fmt.Errorf("migrate: %w", err)
	}
	return applied, nil
}

// Ping checks catalog connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
