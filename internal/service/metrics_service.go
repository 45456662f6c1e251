package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sat-tum/kaiyo-api/internal/models"
)

const metricsNamespace = "kaiyo"

// Evaluation outcomes recorded by ObserveEvaluation.
const (
	OutcomeSatisfied    = "satisfied"
	OutcomeShortfall    = "shortfall"
	OutcomeRulesMissing = "rules_missing"
)

// MetricsService owns the Prometheus registry of the API and keeps running
// totals for the JSON snapshot served to operators.
// Every method is safe on a nil receiver.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	httpDuration *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
	cacheOps     *prometheus.HistogramVec
	cacheLookups *prometheus.CounterVec
	cacheRatio   prometheus.Gauge
	evaluations  *prometheus.CounterVec
	overCredit   *prometheus.CounterVec

	hits, misses    atomic.Uint64
	requests        atomic.Uint64
	requestNanos    atomic.Uint64
	evaluationCount atomic.Uint64
}

// NewMetricsService builds a registry with the process, Go runtime and
// application collectors.
func NewMetricsService() *MetricsService {
	m := &MetricsService{
		registry: prometheus.NewRegistry(),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		cacheOps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "operation_seconds",
			Help:      "Progress cache latency by operation.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}, []string{"op"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Progress cache lookups by result.",
		}, []string{"result"}),
		cacheRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "hit_ratio",
			Help:      "Share of progress cache lookups that hit.",
		}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "credit_evaluations_total",
			Help:      "Credit requirement evaluations by milestone and outcome.",
		}, []string{"milestone", "outcome"}),
		overCredit: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "over_credit_classifications_total",
			Help:      "Applied over-credit classifications by result.",
		}, []string{"over_credit", "changed"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpDuration, m.httpRequests,
		m.cacheOps, m.cacheLookups, m.cacheRatio,
		m.evaluations, m.overCredit,
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one finished request.
func (m *MetricsService) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
	m.httpRequests.WithLabelValues(method, route, code).Inc()
	m.requests.Add(1)
	m.requestNanos.Add(uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records a cache read and refreshes the hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheOps.WithLabelValues("get").Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		m.hits.Add(1)
	} else {
		m.cacheLookups.WithLabelValues("miss").Inc()
		m.misses.Add(1)
	}
	m.cacheRatio.Set(m.hitRatio())
}

// ObserveCacheWrite records a cache write.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheOps.WithLabelValues("set").Observe(duration.Seconds())
}

// ObserveEvaluation counts one evaluation against a milestone.
func (m *MetricsService) ObserveEvaluation(milestone models.MilestoneType, outcome string) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(string(milestone), outcome).Inc()
	m.evaluationCount.Add(1)
}

// ObserveOverCredit counts one applied over-credit classification.
func (m *MetricsService) ObserveOverCredit(overCredit, changed bool) {
	if m == nil {
		return
	}
	m.overCredit.WithLabelValues(strconv.FormatBool(overCredit), strconv.FormatBool(changed)).Inc()
}

// Snapshot summarises the running totals for the ops endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	requests := m.requests.Load()
	var avgMs float64
	if requests > 0 {
		avgMs = float64(m.requestNanos.Load()) / float64(requests) / float64(time.Millisecond)
	}
	return models.SystemMetrics{
		CacheHitRatio:            m.hitRatio(),
		CacheHits:                m.hits.Load(),
		CacheMisses:              m.misses.Load(),
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgMs,
		EvaluationsTotal:         m.evaluationCount.Load(),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}

func (m *MetricsService) hitRatio() float64 {
	hits, misses := m.hits.Load(), m.misses.Load()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}
