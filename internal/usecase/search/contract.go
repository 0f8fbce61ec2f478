package search

import (
	"context"

	"github.com/kailas-cloud/photosearch/internal/db"
	"github.com/kailas-cloud/photosearch/internal/domain/search/facet"
	"github.com/kailas-cloud/photosearch/internal/domain/search/neighbor"
	"github.com/kailas-cloud/photosearch/internal/domain/search/result"
	searchrepo "github.com/kailas-cloud/photosearch/internal/repository/search"
)

// SessionOpener starts the read session a request runs in.
type SessionOpener interface {
	BeginSession(ctx context.Context) (db.Session, error)
}

// Repository plans and runs the primary query.
type Repository interface {
	Plan(p searchrepo.Params) (*searchrepo.Plan, error)
	Search(ctx context.Context, s searchrepo.Session, pl *searchrepo.Plan) (result.Page, error)
	FilteredIDs(ctx context.Context, s searchrepo.Session, pl *searchrepo.Plan) ([]string, error)
}

// FacetComputer computes facets over a filtered id set. It never fails.
type FacetComputer interface {
	Compute(ctx context.Context, ids []string) facet.Set
}

// NeighborFinder returns the k nearest records to a vector within scope.
type NeighborFinder interface {
	TopK(ctx context.Context, vector []float32, k int, scope []string) ([]neighbor.Match, error)
}
