package db

import (
	"context"
	"time"

	"github.com/kailas-cloud/photosearch/internal/db/query"
	"github.com/kailas-cloud/photosearch/internal/domain/media"
	"github.com/kailas-cloud/photosearch/internal/domain/search/facet"
	"github.com/kailas-cloud/photosearch/internal/domain/search/order"
)

// Store is the media catalog facade combining all sub-interfaces.
//
//nolint:interfacebloat // consumers depend on the narrow sub-interfaces
type Store interface {
	Pinger
	SessionOpener
	FacetReader
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SessionOpener starts a request-scoped read session.
type SessionOpener interface {
	BeginSession(ctx context.Context) (Session, error)
}

// Session is a consistent read-only view of the catalog held for one request.
// Close must be called on every path; it is safe to call more than once.
type Session interface {
	// CountMedia counts records matching p.
	CountMedia(ctx context.Context, p query.Predicate) (int, error)
	// ListMedia returns up to limit records matching p, ordered by
	// (coalesced shot_ts, id) in direction dir.
	ListMedia(ctx context.Context, p query.Predicate, dir order.Direction, limit int) ([]media.Record, error)
	// MediaIDs returns the ids of every record matching p, in no particular order.
	MediaIDs(ctx context.Context, p query.Predicate) ([]string, error)
	// TagsFor returns tags per media id.
	TagsFor(ctx context.Context, ids []string) (map[string][]string, error)
	// FacesFor returns face annotations per media id.
	FacesFor(ctx context.Context, ids []string) (map[string][]media.Face, error)
	Close() error
}

// FacetReader aggregates over an explicit id set.
type FacetReader interface {
	CaptureTimes(ctx context.Context, ids []string) ([]time.Time, error)
	CountTags(ctx context.Context, ids []string) ([]facet.ValueCount, error)
	CountPeople(ctx context.Context, ids []string) ([]facet.ValueCount, error)
	CountDuplicateGroups(ctx context.Context, ids []string) (facet.DuplicateStats, error)
}

// KVStore holds expiring byte values (the facet cache).
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// VectorSearcher runs nearest-neighbor lookups restricted to a scope.
type VectorSearcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}

// VectorItem is one stored media embedding.
type VectorItem struct {
	MediaID string
	Vector  []float32
}

// VectorScanner streams stored embeddings.
type VectorScanner interface {
	ScanVectors(ctx context.Context, fn func(VectorItem) error) error
}

// VectorWriter stores embeddings in a vector index.
type VectorWriter interface {
	PutVectors(ctx context.Context, items []VectorItem) error
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}
