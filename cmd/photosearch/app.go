package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/photosearch/internal/config"
	"github.com/kailas-cloud/photosearch/internal/db"
	"github.com/kailas-cloud/photosearch/internal/db/memory"
	"github.com/kailas-cloud/photosearch/internal/db/postgres"
	"github.com/kailas-cloud/photosearch/internal/db/query"
	dbRedis "github.com/kailas-cloud/photosearch/internal/db/redis"
	"github.com/kailas-cloud/photosearch/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/photosearch/internal/logger"
	"github.com/kailas-cloud/photosearch/internal/metrics"
	"github.com/kailas-cloud/photosearch/internal/repository/facetcache"
	"github.com/kailas-cloud/photosearch/internal/repository/neighbors"
	searchrepo "github.com/kailas-cloud/photosearch/internal/repository/search"
	facetuc "github.com/kailas-cloud/photosearch/internal/usecase/facet"
	healthuc "github.com/kailas-cloud/photosearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/photosearch/internal/usecase/search"
)

// app is the composition root shared by every command.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger

	store db.Store
	pg    *postgres.Store // nil unless database.driver=postgres
	redis *dbRedis.Store  // nil unless redis.addrs is set
}

// newApp loads config, builds the logger and connects to the configured stores.
func newApp(ctx context.Context) (*app, error) {
	env := envName()

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	a := &app{env: env, cfg: cfg, logger: logger}
	if err := a.connect(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) connect(ctx context.Context) error {
	readiness := time.Duration(a.cfg.Database.ReadinessTimeout) * time.Second

	switch a.cfg.Database.Driver {
	case "memory":
		mem := memory.New()
		if path := a.cfg.Database.FixturesPath; path != "" {
			if err := mem.LoadFixturesFile(path); err != nil {
				return err
			}
			a.logger.Info("Loaded fixtures", zap.String("path", path))
		}
		a.store = mem
	case "postgres":
		pg, err := postgres.NewStore(postgres.Config{
			URL:          a.cfg.Database.URL,
			MaxOpenConns: a.cfg.Database.MaxOpenConns,
			MaxIdleConns: a.cfg.Database.MaxIdleConns,
		})
		if err != nil {
			return fmt.Errorf("create postgres store: %w", err)
		}
		a.pg = pg
		a.store = pg
	default:
		return fmt.Errorf("unknown database driver %q", a.cfg.Database.Driver)
	}

	if err := a.store.WaitForReady(ctx, readiness); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}
	a.logger.Info("Connected to database", zap.String("driver", a.cfg.Database.Driver))

	if !a.cfg.Redis.Enabled() {
		return nil
	}
	rs, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:        a.cfg.Redis.Addrs,
		Username:     a.cfg.Redis.Username,
		Password:     a.cfg.Redis.Password,
		DB:           a.cfg.Redis.DB,
		VectorPrefix: a.cfg.Redis.KeyPrefix,
	})
	if err != nil {
		return fmt.Errorf("create redis store: %w", err)
	}
	a.redis = rs
	if err := rs.WaitForReady(ctx, readiness); err != nil {
		return fmt.Errorf("redis not ready: %w", err)
	}
	a.logger.Info("Connected to redis", zap.Strings("addrs", a.cfg.Redis.Addrs))
	return nil
}

func (a *app) close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// migrate applies pending catalog migrations. The memory driver has no schema.
func (a *app) migrate(ctx context.Context) ([]string, error) {
	if a.pg == nil {
		return nil, nil
	}
	return a.pg.Migrate(ctx)
}

func (a *app) limits() request.Limits {
	return request.Limits{
		DefaultLimit:   a.cfg.Search.DefaultLimit,
		MaxLimit:       a.cfg.Search.MaxLimit,
		MaxQueryLength: a.cfg.Search.MaxQueryLength,
	}
}

// searcher wires repository, facet engine and neighbor backend into an
// instrumented search service.
func (a *app) searcher() searchuc.Searcher {
	var cache facetuc.Cache
	if a.cfg.Facets.CacheEnabled && a.redis != nil {
		ttl := time.Duration(a.cfg.Facets.CacheTTLSec) * time.Second
		cache = facetcache.New(a.redis, ttl, metrics.FacetCacheTotal, a.logger)
	}
	engine := facetuc.New(a.store, cache, facetuc.Metrics{
		Duration: metrics.FacetDuration,
		Failures: metrics.FacetFailuresTotal,
	}, a.logger)

	repo := searchrepo.New(query.Compiler{MaxValues: a.cfg.Search.MaxFilterValues})

	// Pass a nil interface, not a typed nil pointer, when no backend is configured.
	var finder searchuc.NeighborFinder
	switch a.cfg.Neighbors.Driver {
	case "redis":
		finder = neighbors.New(a.redis, a.cfg.Neighbors.Index)
	case "postgres":
		finder = neighbors.New(a.pg, a.cfg.Neighbors.Index)
	}

	svc := searchuc.New(a.store, repo, engine, finder, searchuc.NeighborLimits{
		DefaultK: a.cfg.Neighbors.DefaultK,
		MaxK:     a.cfg.Neighbors.MaxK,
	}, a.logger)
	return searchuc.NewInstrumented(svc, a.logger)
}

func (a *app) health() *healthuc.Service {
	var cache healthuc.Pinger
	if a.redis != nil {
		cache = a.redis
	}
	return healthuc.New(a.store, cache)
}
