// Package neighbors adapts a vector index to the top_k neighbor lookup.
package neighbors

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/photosearch/internal/db"
	"github.com/kailas-cloud/photosearch/internal/domain"
	"github.com/kailas-cloud/photosearch/internal/domain/search/neighbor"
)

// Repo runs top_k lookups against one vector index.
type Repo struct {
	searcher db.VectorSearcher
	index    string
}

// New creates a neighbor repository over the named index.
func New(s db.VectorSearcher, index string) *Repo {
	return &Repo{searcher: s, index: index}
}

// TopK returns up to k neighbors of vector among scope, best first.
// A nil scope is unrestricted; an empty scope returns no matches without a lookup.
func (r *Repo) TopK(ctx context.Context, vector []float32, k int, scope []string) ([]neighbor.Match, error) {
	if k <= 0 || (scope != nil && len(scope) == 0) {
		return []neighbor.Match{}, nil
	}

	res, err := r.searcher.SearchKNN(ctx, &db.KNNQuery{
		IndexName: r.index,
		Vector:    vector,
		K:         k,
		Scope:     scope,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNeighborLookup, err)
	}

	matches := make([]neighbor.Match, 0, len(res.Entries))
	seen := make(map[string]struct{}, len(res.Entries))
	for _, e := range res.Entries {
		if e.Key == "" {
			continue
		}
		if _, dup := seen[e.Key]; dup {
			continue
		}
		seen[e.Key] = struct{}{}
		matches = append(matches, neighbor.Match{ID: e.Key, Score: e.Score})
		if len(matches) == k {
			break
		}
	}
	return matches, nil
}
