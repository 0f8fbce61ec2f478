package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/photosearch/internal/domain/search/facet"
	"github.com/kailas-cloud/photosearch/internal/domain/search/request"
	"github.com/kailas-cloud/photosearch/internal/domain/search/result"
	searchrepo "github.com/kailas-cloud/photosearch/internal/repository/search"
)

// Neighbor lookup defaults.
const (
	DefaultK = 100
	MaxK     = 1000
)

// NeighborLimits bounds similarity_k.
type NeighborLimits struct {
	DefaultK int
	MaxK     int
}

// Service answers search requests: one page of hits plus facets over the whole filtered set.
type Service struct {
	sessions  SessionOpener
	repo      Repository
	facets    FacetComputer
	neighbors NeighborFinder
	limits    NeighborLimits
	logger    *zap.Logger
}

// New creates a search service. neighbors may be nil, in which case
// request vectors are ignored.
func New(
	sessions SessionOpener, repo Repository, facets FacetComputer,
	neighbors NeighborFinder, limits NeighborLimits, logger *zap.Logger,
) *Service {
	if limits.DefaultK <= 0 {
		limits.DefaultK = DefaultK
	}
	if limits.MaxK <= 0 {
		limits.MaxK = MaxK
	}
	return &Service{
		sessions:  sessions,
		repo:      repo,
		facets:    facets,
		neighbors: neighbors,
		limits:    limits,
		logger:    logger,
	}
}

// Search runs a request. Malformed cursors and oversized filters fail before any I/O.
// The page, the id set and any neighbor scope are read in one session.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Response, error) {
	pl, err := s.repo.Plan(searchrepo.Params{
		Filters: req.Filters(),
		Text:    req.Query(),
		Sort:    req.Sort(),
		Limit:   req.Limit(),
		Cursor:  req.Cursor(),
	})
	if err != nil {
		return result.Response{}, fmt.Errorf("plan search: %w", err)
	}

	sess, err := s.sessions.BeginSession(ctx)
	if err != nil {
		return result.Response{}, fmt.Errorf("begin session: %w", err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			s.logger.Warn("Failed to close search session", zap.Error(cerr))
		}
	}()

	if vec := req.Vector(); vec != nil {
		if err := s.restrictToNeighbors(ctx, sess, pl, vec, req.SimilarityK()); err != nil {
			return result.Response{}, err
		}
	}

	page, err := s.repo.Search(ctx, sess, pl)
	if err != nil {
		return result.Response{}, fmt.Errorf("search media: %w", err)
	}
	if page.Total == 0 {
		return result.Response{Hits: page, Facets: facet.EmptySet()}, nil
	}

	ids, err := s.repo.FilteredIDs(ctx, sess, pl)
	if err != nil {
		return result.Response{}, fmt.Errorf("facet scope: %w", err)
	}

	return result.Response{Hits: page, Facets: s.facets.Compute(ctx, ids)}, nil
}

func (s *Service) restrictToNeighbors(
	ctx context.Context, sess searchrepo.Session, pl *searchrepo.Plan, vec []float32, k int,
) error {
	if s.neighbors == nil {
		s.logger.Debug("No neighbor backend configured, ignoring vector", zap.Int("dim", len(vec)))
		return nil
	}

	scope, err := s.repo.FilteredIDs(ctx, sess, pl)
	if err != nil {
		return fmt.Errorf("neighbor scope: %w", err)
	}

	matches, err := s.neighbors.TopK(ctx, vec, s.resolveK(k), scope)
	if err != nil {
		return fmt.Errorf("top k: %w", err)
	}
	pl.Restrict(matches)
	return nil
}

func (s *Service) resolveK(k int) int {
	if k <= 0 {
		k = s.limits.DefaultK
	}
	return min(k, s.limits.MaxK)
}
