// Package metrics holds the Prometheus instrumentation of the refresh pipeline.
// Every method is safe to call on a nil *Metrics so components can run uninstrumented.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains all Prometheus metrics for the service.
type Metrics struct {
	registry *prometheus.Registry

	UpstreamPages   *prometheus.CounterVec
	RefreshTotal    *prometheus.CounterVec
	RefreshDuration prometheus.Histogram
	CacheLookups    *prometheus.CounterVec
	SnapshotMarkets prometheus.Gauge
	SnapshotAgeSec  prometheus.Gauge
	ArbScans        *prometheus.CounterVec
}

// New creates the metrics on a dedicated registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		UpstreamPages: f.NewCounterVec(prometheus.CounterOpts{
			Name: "polyintel_upstream_pages_total",
			Help: "Gamma event pages requested, by HTTP status or failure kind",
		}, []string{"status"}),

		RefreshTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "polyintel_refresh_total",
			Help: "Refresh cycles by result (success, failure_stale, failure_empty)",
		}, []string{"result"}),

		RefreshDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "polyintel_refresh_duration_seconds",
			Help:    "Wall time of a full fetch+transform+classify cycle",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}),

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "polyintel_cache_lookups_total",
			Help: "Snapshot lookups by outcome (hit, refresh, stale)",
		}, []string{"outcome"}),

		SnapshotMarkets: f.NewGauge(prometheus.GaugeOpts{
			Name: "polyintel_snapshot_markets",
			Help: "Markets in the live snapshot",
		}),

		SnapshotAgeSec: f.NewGauge(prometheus.GaugeOpts{
			Name: "polyintel_snapshot_age_seconds",
			Help: "Age of the snapshot served by the latest lookup",
		}),

		ArbScans: f.NewCounterVec(prometheus.CounterOpts{
			Name: "polyintel_arb_scans_total",
			Help: "Cross-venue scans by result",
		}, []string{"result"}),
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RecordUpstreamPage(status string) {
	if m == nil {
		return
	}
	m.UpstreamPages.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordRefresh(result string, seconds float64) {
	if m == nil {
		return
	}
	m.RefreshTotal.WithLabelValues(result).Inc()
	m.RefreshDuration.Observe(seconds)
}

func (m *Metrics) RecordLookup(outcome string, ageSec float64) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(outcome).Inc()
	m.SnapshotAgeSec.Set(ageSec)
}

func (m *Metrics) RecordSnapshotSize(markets int) {
	if m == nil {
		return
	}
	m.SnapshotMarkets.Set(float64(markets))
}

func (m *Metrics) RecordArbScan(result string) {
	if m == nil {
		return
	}
	m.ArbScans.WithLabelValues(result).Inc()
}
