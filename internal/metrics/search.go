package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search and facet Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "photosearch",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"status"}, // "ok" / "invalid" / "error"
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "photosearch",
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds, facets included",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	FacetDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "photosearch",
			Name:      "facet_duration_seconds",
			Help:      "Facet computation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"facet"},
	)

	FacetFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "photosearch",
			Name:      "facet_failures_total",
			Help:      "Facet computations replaced by an empty result",
		},
		[]string{"facet"},
	)

	FacetCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "photosearch",
			Name:      "facet_cache_total",
			Help:      "Facet cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerOnce sync.Once

// Register registers every collector of this package on the default registry.
// Call it from main; repeated calls are no-ops.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			httpResponseSize,
			httpInFlight,
			SearchRequestsTotal,
			SearchDuration,
			FacetDuration,
			FacetFailuresTotal,
			FacetCacheTotal,
		)
	})
}
