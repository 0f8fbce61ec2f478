package search

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/photosearch/internal/domain"
	"github.com/kailas-cloud/photosearch/internal/domain/search/request"
	"github.com/kailas-cloud/photosearch/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/photosearch/internal/logger"
	"github.com/kailas-cloud/photosearch/internal/metrics"
)

// Searcher answers search requests.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Response, error)
}

// InstrumentedSearcher records search metrics and logs failures.
// Metrics must be registered via metrics.Register.
type InstrumentedSearcher struct {
	inner  Searcher
	logger *zap.Logger
}

// NewInstrumented wraps a searcher with metrics and logging.
func NewInstrumented(inner Searcher, logger *zap.Logger) *InstrumentedSearcher {
	return &InstrumentedSearcher{inner: inner, logger: logger}
}

// Search delegates to the inner searcher and records outcome and duration.
func (s *InstrumentedSearcher) Search(ctx context.Context, req *request.Request) (result.Response, error) {
	start := time.Now()
	resp, err := s.inner.Search(ctx, req)
	duration := time.Since(start)

	metrics.SearchDuration.Observe(duration.Seconds())
	metrics.SearchRequestsTotal.WithLabelValues(status(err)).Inc()

	log := logpkg.FromContextOr(ctx, s.logger)
	switch {
	case err == nil:
		log.Debug("Search completed",
			zap.Duration("duration", duration),
			zap.Int("total", resp.Hits.Total),
			zap.Int("items", len(resp.Hits.Items)),
			zap.Bool("has_more", resp.Hits.HasMore()),
		)
	case status(err) == "invalid":
		log.Debug("Search rejected", zap.Error(err))
	default:
		log.Error("Search failed", zap.Duration("duration", duration), zap.Error(err))
	}
	return resp, err
}

func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrMalformedCursor),
		errors.Is(err, domain.ErrFilterTooLarge),
		errors.Is(err, domain.ErrInvalidRequest):
		return "invalid"
	default:
		return "error"
	}
}
