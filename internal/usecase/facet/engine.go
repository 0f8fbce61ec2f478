// Package facet computes the facet section of a search response.
package facet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/photosearch/internal/domain"
	domfacet "github.com/kailas-cloud/photosearch/internal/domain/search/facet"
	logpkg "github.com/kailas-cloud/photosearch/internal/logger"
)

type computeFunc func(ctx context.Context, ids []string) (domfacet.Result, error)

// Metrics are the engine's instruments. Nil fields are skipped.
type Metrics struct {
	Duration *prometheus.HistogramVec // label "facet"
	Failures *prometheus.CounterVec   // label "facet"
}

// Engine runs every facet kind over the same filtered id set, in parallel.
// A failing kind is logged and replaced by its empty result; the others are unaffected.
type Engine struct {
	computes map[domfacet.Kind]computeFunc
	cache    Cache
	metrics  Metrics
	logger   *zap.Logger
}

// New creates an engine. cache may be nil.
func New(r Reader, cache Cache, m Metrics, logger *zap.Logger) *Engine {
	return &Engine{
		computes: map[domfacet.Kind]computeFunc{
			domfacet.KindDate:       dateFacet(r),
			domfacet.KindTags:       tagsFacet(r),
			domfacet.KindPeople:     peopleFacet(r),
			domfacet.KindDuplicates: duplicatesFacet(r),
		},
		cache:   cache,
		metrics: m,
		logger:  logger,
	}
}

// Compute returns every facet over ids. It never fails: an empty id set,
// a failed kind or a panicking kind all yield empty results.
func (e *Engine) Compute(ctx context.Context, ids []string) domfacet.Set {
	set := domfacet.EmptySet()
	if len(ids) == 0 {
		return set
	}

	kinds := domfacet.Kinds()
	results := make([]domfacet.Result, len(kinds))

	var wg sync.WaitGroup
	for i, kind := range kinds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = e.run(ctx, kind, ids)
		}()
	}
	wg.Wait()

	for _, r := range results {
		set.Apply(r)
	}
	return set
}

func (e *Engine) run(ctx context.Context, kind domfacet.Kind, ids []string) domfacet.Result {
	if e.cache != nil {
		if res, ok := e.cache.Get(ctx, kind, ids); ok {
			return res
		}
	}

	start := time.Now()
	res, err := e.safeCompute(ctx, kind, ids)
	if e.metrics.Duration != nil {
		e.metrics.Duration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	}

	if err != nil {
		ferr := &domain.FacetError{Facet: string(kind), Err: err}
		logpkg.FromContextOr(ctx, e.logger).Warn("Facet computation failed",
			zap.String("facet", string(kind)),
			zap.Error(ferr),
		)
		if e.metrics.Failures != nil {
			e.metrics.Failures.WithLabelValues(string(kind)).Inc()
		}
		return domfacet.Empty(kind)
	}

	if e.cache != nil {
		e.cache.Put(ctx, kind, ids, res)
	}
	return res
}

func (e *Engine) safeCompute(ctx context.Context, kind domfacet.Kind, ids []string) (res domfacet.Result, err error) {
	compute, ok := e.computes[kind]
	if !ok {
		return domfacet.Result{}, fmt.Errorf("no computation for facet %q", kind)
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return compute(ctx, ids)
}

func dateFacet(src DateSource) computeFunc {
	return func(ctx context.Context, ids []string) (domfacet.Result, error) {
		times, err := src.CaptureTimes(ctx, ids)
		if err != nil {
			return domfacet.Result{}, fmt.Errorf("capture times: %w", err)
		}
		return domfacet.NewDate(domfacet.BuildDateHierarchy(times)), nil
	}
}

func tagsFacet(src TagCounter) computeFunc {
	return func(ctx context.Context, ids []string) (domfacet.Result, error) {
		counts, err := src.CountTags(ctx, ids)
		if err != nil {
			return domfacet.Result{}, fmt.Errorf("count tags: %w", err)
		}
		return domfacet.NewValues(domfacet.KindTags, counts), nil
	}
}

func peopleFacet(src PeopleCounter) computeFunc {
	return func(ctx context.Context, ids []string) (domfacet.Result, error) {
		counts, err := src.CountPeople(ctx, ids)
		if err != nil {
			return domfacet.Result{}, fmt.Errorf("count people: %w", err)
		}
		return domfacet.NewValues(domfacet.KindPeople, counts), nil
	}
}

func duplicatesFacet(src DuplicateCounter) computeFunc {
	return func(ctx context.Context, ids []string) (domfacet.Result, error) {
		stats, err := src.CountDuplicateGroups(ctx, ids)
		if err != nil {
			return domfacet.Result{}, fmt.Errorf("count duplicate groups: %w", err)
		}
		return domfacet.NewDuplicates(stats), nil
	}
}
