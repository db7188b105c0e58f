// Package metrics exposes Prometheus collectors for the console state:
// cache slot reads, the loading gate, and notifications.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/colonyops/consolestate/internal/core/cache"
	"github.com/colonyops/consolestate/internal/core/notify"
)

const namespace = "consolestate"

// Metrics holds the collectors registered on its own registry.
type Metrics struct {
	Registry *prometheus.Registry

	CacheReads    *prometheus.CounterVec
	LoadingActive prometheus.Gauge
	Notifications *prometheus.CounterVec
	ActiveToasts  prometheus.Gauge
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		CacheReads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_reads_total",
				Help:      "Cache slot reads by slot and outcome",
			},
			[]string{"slot", "outcome"},
		),
		LoadingActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "loading_active",
				Help:      "Scoped operations currently holding the loading gate",
			},
		),
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Notifications enqueued by level",
			},
			[]string{"level"},
		),
		ActiveToasts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "notifications_active",
				Help:      "Notifications currently displayed",
			},
		),
	}

	m.Registry.MustRegister(
		m.CacheReads,
		m.LoadingActive,
		m.Notifications,
		m.ActiveToasts,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRead implements cache.Observer.
func (m *Metrics) ObserveRead(slot string, outcome cache.Outcome) {
	m.CacheReads.WithLabelValues(slot, string(outcome)).Inc()
}

// ObserveLoading records the gate's active count.
func (m *Metrics) ObserveLoading(active int) {
	m.LoadingActive.Set(float64(active))
}

// ObserveNotification counts an enqueued notification.
func (m *Metrics) ObserveNotification(level notify.Level) {
	m.Notifications.WithLabelValues(string(level)).Inc()
}

// ObserveToasts records the number of displayed notifications.
func (m *Metrics) ObserveToasts(active int) {
	m.ActiveToasts.Set(float64(active))
}
