package photosearch

import (
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NeighborBackend selects where similarity lookups run.
type NeighborBackend string

// Neighbor backends.
const (
	// NeighborsCatalog ranks embeddings stored next to the catalog
	// (media_vectors in PostgreSQL, or the embedded store's vectors).
	NeighborsCatalog NeighborBackend = "catalog"
	// NeighborsRedis queries an FT vector index; requires WithRedis.
	NeighborsRedis NeighborBackend = "redis"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	postgresURL  string
	maxOpenConns int

	embedded bool
	fixtures io.Reader

	redisAddrs    []string
	redisPassword string

	facetCacheTTL time.Duration

	neighbors     NeighborBackend
	neighborIndex string
	defaultK      int
	maxK          int

	defaultLimit    int
	maxLimit        int
	maxFilterValues int

	readinessTimeout time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithPostgres uses a PostgreSQL catalog.
func WithPostgres(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.postgresURL = url
	})
}

// WithPoolSize caps open PostgreSQL connections.
// Every search holds one connection for its page and up to four more for facets.
func WithPoolSize(maxOpen int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxOpenConns = maxOpen
	})
}

// WithEmbedded uses an in-memory catalog loaded from a JSON fixtures document.
// A nil reader starts empty.
func WithEmbedded(fixtures io.Reader) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedded = true
		c.fixtures = fixtures
	})
}

// WithRedis connects a Redis (or Valkey) instance with the search module.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddrs = []string{addr}
		c.redisPassword = password
	})
}

// WithFacetCache caches facet results in Redis for ttl. Requires WithRedis.
func WithFacetCache(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.facetCacheTTL = ttl
	})
}

// WithNeighbors enables similarity restriction of searches carrying a vector.
// index names the FT index and is ignored by NeighborsCatalog.
func WithNeighbors(backend NeighborBackend, index string) Option {
	return optionFunc(func(c *clientConfig) {
		c.neighbors = backend
		c.neighborIndex = index
	})
}

// WithSimilarityK sets the default neighbor count and its cap.
// Defaults: 100 and 1000.
func WithSimilarityK(defaultK, maxK int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultK = defaultK
		c.maxK = maxK
	})
}

// WithLimits sets the default and maximum page size.
// Defaults: 50 and 200.
func WithLimits(defaultLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	})
}

// WithMaxFilterValues caps the number of values per multi-value filter.
// Default: 100.
func WithMaxFilterValues(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxFilterValues = n
	})
}

// WithReadinessTimeout bounds the initial connectivity wait. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
