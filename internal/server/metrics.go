package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Tafitantsu/Transport-cost/pkg/observability"
)

// Metrics exports solver, cache and HTTP events to Prometheus. It
// implements the observability hook interfaces; call Install to route the
// process-wide hooks to it.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	generations     *prometheus.CounterVec
	generateTime    *prometheus.HistogramVec
	optimizations   *prometheus.CounterVec
	optimizeRounds  prometheus.Histogram
	optimizeTime    prometheus.Histogram
	cacheEvents     *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transport",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "transport",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transport",
			Name:      "initial_solutions_total",
			Help:      "Initial solutions generated, by method and outcome.",
		}, []string{"method", "outcome"}),
		generateTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "transport",
			Name:      "initial_solution_duration_seconds",
			Help:      "Time spent generating initial solutions.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"method"}),
		optimizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transport",
			Name:      "optimizations_total",
			Help:      "Stepping-stone runs by final status.",
		}, []string{"status"}),
		optimizeRounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "transport",
			Name:      "optimization_rounds",
			Help:      "Pivots performed per stepping-stone run.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		optimizeTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "transport",
			Name:      "optimization_duration_seconds",
			Help:      "Time spent in the stepping-stone optimizer.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transport",
			Name:      "cache_events_total",
			Help:      "Result cache lookups and writes.",
		}, []string{"kind", "event"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.requestDuration,
		m.generations, m.generateTime,
		m.optimizations, m.optimizeRounds, m.optimizeTime,
		m.cacheEvents,
	)
	return m
}

// Install routes the process-wide observability hooks to m.
func (m *Metrics) Install() {
	observability.SetSolverHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) OnGenerateStart(context.Context, string, int, int) {}

func (m *Metrics) OnGenerateComplete(_ context.Context, method string, d time.Duration, err error) {
	m.generations.WithLabelValues(method, outcome(err)).Inc()
	m.generateTime.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) OnOptimizeStart(context.Context, int, int) {}

func (m *Metrics) OnOptimizeComplete(_ context.Context, status string, rounds int, d time.Duration, err error) {
	if err != nil {
		status = "error"
	}
	m.optimizations.WithLabelValues(status).Inc()
	m.optimizeRounds.Observe(float64(rounds))
	m.optimizeTime.Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, kind string) {
	m.cacheEvents.WithLabelValues(kind, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, kind string) {
	m.cacheEvents.WithLabelValues(kind, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, kind string, _ int) {
	m.cacheEvents.WithLabelValues(kind, "set").Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ observability.SolverHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)
