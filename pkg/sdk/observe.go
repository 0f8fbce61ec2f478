package photosearch

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	facetuc "github.com/kailas-cloud/photosearch/internal/usecase/facet"
)

// Operation statuses.
const (
	statusOK      = "ok"
	statusInvalid = "invalid"
	statusError   = "error"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations    *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	facetDuration *prometheus.HistogramVec
	facetFailures *prometheus.CounterVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "photosearch",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "photosearch",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		facetDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "photosearch",
			Subsystem: "sdk",
			Name:      "facet_duration_seconds",
			Help:      "Facet computation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"facet"}),
		facetFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "photosearch",
			Subsystem: "sdk",
			Name:      "facet_failures_total",
			Help:      "Facet computations replaced by an empty result.",
		}, []string{"facet"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.facetDuration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.facetFailures); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("photosearch: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("photosearch: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for SDK operations.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

// facetMetrics exposes the facet collectors to the engine; zero when metrics are off.
func (o *observer) facetMetrics() facetuc.Metrics {
	if o == nil || o.metrics == nil {
		return facetuc.Metrics{}
	}
	return facetuc.Metrics{Duration: o.metrics.facetDuration, Failures: o.metrics.facetFailures}
}

// operationStatus separates caller mistakes from backend failures.
func operationStatus(err error) string {
	switch {
	case err == nil:
		return statusOK
	case IsRequestError(err):
		return statusInvalid
	default:
		return statusError
	}
}

func (o *observer) observe(
	op string, start time.Time, err error,
) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	status := operationStatus(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(
			dur.Seconds(),
		)
	}

	if o.logger == nil {
		return
	}
	switch status {
	case statusError:
		o.logger.Warn("operation failed",
			"op", op,
			"duration", dur,
			"error", err,
		)
	case statusInvalid:
		o.logger.Debug("operation rejected",
			"op", op,
			"error", err,
		)
	default:
		o.logger.Debug("operation completed",
			"op", op,
			"duration", dur,
		)
	}
}
