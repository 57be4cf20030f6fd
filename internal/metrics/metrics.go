// Package metrics implements the observability hooks with Prometheus
// collectors.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/jray/pkg/errors"
	"github.com/matzehuels/jray/pkg/observability"
)

const namespace = "jray"

// Metrics holds every collector. It implements all hook interfaces of
// package observability.
type Metrics struct {
	projections     *prometheus.CounterVec
	projectDuration prometheus.Histogram
	projectedNodes  prometheus.Histogram
	edits           *prometheus.CounterVec
	toggles         *prometheus.CounterVec

	layouts         *prometheus.CounterVec
	layoutDuration  *prometheus.HistogramVec
	layoutFallbacks prometheus.Counter

	cacheOps *prometheus.CounterVec
	cacheSet prometheus.Histogram

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		// Labels: result (ok, invalid_json)
		projections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "projections_total",
			Help:      "Projections of source text into a diagram",
		}, []string{"result"}),
		projectDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "projection_duration_seconds",
			Help:      "Time to parse and project source text",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		projectedNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "projected_nodes",
			Help:      "Nodes per successful projection",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		// Labels: outcome (applied, noop, dropped, rejected)
		edits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "edits_total",
			Help:      "Node edits by outcome",
		}, []string{"outcome"}),
		// Labels: action (collapse, expand)
		toggles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "toggles_total",
			Help:      "Collapse and expand operations",
		}, []string{"action"}),

		// Labels: direction, result (ok, fallback)
		layouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "runs_total",
			Help:      "Layout runs by direction and result",
		}, []string{"direction", "result"}),
		layoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "duration_seconds",
			Help:      "Layout oracle latency",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"direction"}),
		layoutFallbacks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "fallback_nodes_total",
			Help:      "Nodes placed at a last-known or zero coordinate",
		}),

		// Labels: key_type, op (hit, miss, set)
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache operations by key type",
		}, []string{"key_type", "op"}),
		cacheSet: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "entry_bytes",
			Help:      "Size of cache writes",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}),

		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Install registers m as the global session, layout, cache and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetSessionHooks(m)
	observability.SetLayoutHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func (m *Metrics) OnProject(_ context.Context, nodeCount int, d time.Duration, err error) {
	m.projectDuration.Observe(d.Seconds())
	if err != nil {
		m.projections.WithLabelValues(resultLabel(err)).Inc()
		return
	}
	m.projections.WithLabelValues("ok").Inc()
	m.projectedNodes.Observe(float64(nodeCount))
}

func (m *Metrics) OnEdit(_ context.Context, outcome string) {
	m.edits.WithLabelValues(outcome).Inc()
}

func (m *Metrics) OnToggle(_ context.Context, action string) {
	m.toggles.WithLabelValues(action).Inc()
}

func (m *Metrics) OnLayoutStart(context.Context, string, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, direction string, d time.Duration, fallbacks int, err error) {
	m.layoutDuration.WithLabelValues(direction).Observe(d.Seconds())
	result := "ok"
	if err != nil || fallbacks > 0 {
		result = "fallback"
	}
	m.layouts.WithLabelValues(direction, result).Inc()
	m.layoutFallbacks.Add(float64(fallbacks))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheSet.Observe(float64(size))
}

func (m *Metrics) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func resultLabel(err error) string {
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "error"
}

// statusClass keeps label cardinality bounded: 2xx, 4xx, 5xx.
func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	}
	return "2xx"
}
