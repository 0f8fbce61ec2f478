package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/photosearch/internal/db"
)

// Compile-time checks.
var (
	_ db.KVStore        = (*Store)(nil)
	_ db.VectorSearcher = (*Store)(nil)
	_ db.VectorWriter   = (*Store)(nil)
	_ db.IndexManager   = (*Store)(nil)
)

// DefaultVectorPrefix is the key prefix of embedding hashes.
const DefaultVectorPrefix = "photosearch:vec:"

// Config holds connection parameters for a Redis store.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
	// VectorPrefix prefixes embedding hash keys; empty means DefaultVectorPrefix.
	VectorPrefix string
}

// Store serves the facet cache and the embedding index via rueidis (Redis 8+ or Valkey with search).
type Store struct {
	client       rueidis.Client
	vectorPrefix string
}

// NewStore creates a Redis store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH result parsing expects RESP2 array format
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{client: client, vectorPrefix: vectorPrefix(cfg.VectorPrefix)}, nil
}

func vectorPrefix(p string) string {
	if p == "" {
		return DefaultVectorPrefix
	}
	return p
}

// VectorPrefix returns the key prefix of embedding hashes.
func (s *Store) VectorPrefix() string { return s.vectorPrefix }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.PollReady(ctx, "redis", timeout, 100*time.Millisecond, s.Ping)
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// isRedisErr checks if err is a Redis server error containing substr (case-insensitive).
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(re.Error()), strings.ToLower(substr))
}
