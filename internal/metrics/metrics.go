// Package metrics exposes Prometheus instruments for refresh cycles and
// dashboard sessions.
package metrics

import (
	"math"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the price board.
type Metrics struct {
	// RefreshTotal is labelled by trigger and result.
	RefreshTotal     *prometheus.CounterVec
	RefreshDuration  prometheus.Histogram
	StaleSnapshots   prometheus.Counter
	SkippedRefreshes prometheus.Counter
	LastRefreshUnix  prometheus.Gauge
	WindowPoints     prometheus.Gauge
	CurrentHourPrice prometheus.Gauge
	ActiveSessions   prometheus.Gauge
	SessionMessages  *prometheus.CounterVec
	RecorderErrors   prometheus.Counter

	registry *prometheus.Registry
}

// New creates a Metrics instance registered on its own registry, so tests
// can build as many as they need.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "priceboard"
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		RefreshTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "runs_total",
			Help:      "Refresh cycles by trigger and result",
		}, []string{"trigger", "result"}),
		RefreshDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "duration_seconds",
			Help:      "Time to fetch both price endpoints",
			Buckets:   prometheus.DefBuckets,
		}),
		StaleSnapshots: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "stale_snapshots_total",
			Help:      "Snapshots discarded because a newer one was already applied",
		}),
		SkippedRefreshes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "skipped_total",
			Help:      "Refresh triggers dropped while another refresh was in flight",
		}),
		LastRefreshUnix: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "last_success_timestamp",
			Help:      "Unix timestamp of the last successful refresh",
		}),
		WindowPoints: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "window",
			Name:      "points",
			Help:      "Samples in the current 24-hour window",
		}),
		CurrentHourPrice: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "window",
			Name:      "current_hour_price_cents",
			Help:      "Current-hour price in cents/kWh",
		}),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "active_sessions",
			Help:      "Connected dashboard sessions",
		}),
		SessionMessages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "messages_total",
			Help:      "Messages received from dashboard sessions by type",
		}, []string{"type"}),
		RecorderErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recorder",
			Name:      "errors_total",
			Help:      "Failures persisting the current window",
		}),
		registry: reg,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRefresh records the outcome of one refresh cycle.
func (m *Metrics) RecordRefresh(trigger string, err error, seconds float64) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RefreshTotal.WithLabelValues(trigger, result).Inc()
	m.RefreshDuration.Observe(seconds)
}

// RecordWindow updates the window gauges after a successful refresh.
func (m *Metrics) RecordWindow(points int, currentHour float64, unix int64) {
	if m == nil {
		return
	}
	m.WindowPoints.Set(float64(points))
	if !math.IsNaN(currentHour) {
		m.CurrentHourPrice.Set(currentHour)
	}
	m.LastRefreshUnix.Set(float64(unix))
}
