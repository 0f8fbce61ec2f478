package memory

import (
	"context"
	"math"
	"slices"
	"strings"

	"github.com/kailas-cloud/photosearch/internal/db"
)

// SearchKNN ranks stored embeddings by cosine similarity, brute force.
// Entry keys are media ids.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var scope map[string]struct{}
	if q.Scope != nil {
		scope = toSet(q.Scope)
	}

	entries := make([]db.SearchEntry, 0, len(s.vectors))
	for id, v := range s.vectors {
		if scope != nil {
			if _, ok := scope[id]; !ok {
				continue
			}
		}
		if len(v) != len(q.Vector) {
			continue
		}
		entries = append(entries, db.SearchEntry{Key: id, Score: cosine(q.Vector, v)})
	}
	slices.SortFunc(entries, func(a, b db.SearchEntry) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Key, b.Key)
	})
	if q.K > 0 && len(entries) > q.K {
		entries = entries[:q.K]
	}
	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

// ScanVectors calls fn for every stored embedding in media id order.
func (s *Store) ScanVectors(ctx context.Context, fn func(db.VectorItem) error) error {
	s.mu.RLock()
	ids := make([]string, 0, len(s.vectors))
	for id := range s.vectors {
		ids = append(ids, id)
	}
	items := make([]db.VectorItem, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		items = append(items, db.VectorItem{MediaID: id, Vector: slices.Clone(s.vectors[id])})
	}
	s.mu.RUnlock()

	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(it); err != nil {
			return err
		}
	}
	return nil
}

// cosine returns the cosine similarity clamped to [0, 1], matching 1 - cosine distance.
func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return max(0, min(1, sim))
}
