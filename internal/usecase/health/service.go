package health

import (
	"context"
	"sync"
	"time"
)

// DefaultCheckTimeout bounds each component probe.
const DefaultCheckTimeout = 2 * time.Second

// Status is the aggregated health of the service.
type Status string

const (
	// Healthy: every component answered.
	Healthy Status = "ok"
	// Degraded: an optional component (the cache) is down; searches still work.
	Degraded Status = "degraded"
	// Unhealthy: a required component (the catalog) is down.
	Unhealthy Status = "error"
)

// CheckResult is the outcome of one component probe.
type CheckResult string

// Probe outcomes.
const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Report aggregates health check results, keyed by component name.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type component struct {
	name     string
	pinger   Pinger
	required bool
}

// Service probes the catalog and, when configured, the cache.
type Service struct {
	components []component
	timeout    time.Duration
}

// New creates a Service. cache may be nil when Redis is not configured.
func New(db Pinger, cache Pinger) *Service {
	s := &Service{
		components: []component{{name: "database", pinger: db, required: true}},
		timeout:    DefaultCheckTimeout,
	}
	if cache != nil {
		s.components = append(s.components, component{name: "cache", pinger: cache})
	}
	return s
}

// WithTimeout returns a copy of s that gives each probe at most d.
func (s *Service) WithTimeout(d time.Duration) *Service {
	cp := *s
	cp.timeout = d
	return &cp
}

// Check probes all components concurrently and aggregates the outcome.
func (s *Service) Check(ctx context.Context) Report {
	results := make([]CheckResult, len(s.components))

	var wg sync.WaitGroup
	for i, c := range s.components {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			results[i] = CheckOK
			if err := c.pinger.Ping(pctx); err != nil {
				results[i] = CheckError
			}
		}()
	}
	wg.Wait()

	report := Report{Status: Healthy, Checks: make(map[string]CheckResult, len(s.components))}
	for i, c := range s.components {
		report.Checks[c.name] = results[i]
		if results[i] != CheckError {
			continue
		}
		if c.required {
			report.Status = Unhealthy
		} else if report.Status == Healthy {
			report.Status = Degraded
		}
	}
	return report
}
