// Package metrics exports per-session gameplay counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives gameplay events. Implementations must be safe for
// concurrent use: every SSH session's game goroutine shares one.
type Recorder interface {
	SessionStarted()
	SessionEnded(d time.Duration)
	ItemCollected(itemID string, amount int)
	ItemUsed(itemID string)
	PickupFinished(outcome string)
	ViewOpened(view string)
}

// Nop discards everything. It is the recorder for local play.
type Nop struct{}

func (Nop) SessionStarted()            {}
func (Nop) SessionEnded(time.Duration) {}
func (Nop) ItemCollected(string, int)  {}
func (Nop) ItemUsed(string)            {}
func (Nop) PickupFinished(string)      {}
func (Nop) ViewOpened(string)          {}

// Prometheus records gameplay into Prometheus collectors.
type Prometheus struct {
	registry *prometheus.Registry

	ActiveSessions  prometheus.Gauge
	SessionsTotal   prometheus.Counter
	SessionDuration prometheus.Histogram
	ItemsCollected  *prometheus.CounterVec
	ItemsUsed       *prometheus.CounterVec
	Pickups         *prometheus.CounterVec
	ViewsOpened     *prometheus.CounterVec
}

// New creates the collectors under namespace and registers them, along with
// the Go and process collectors, on a private registry.
func New(namespace string) (*Prometheus, error) {
	m := &Prometheus{
		registry: prometheus.NewRegistry(),

		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Games currently running.",
		}),
		SessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Games started.",
		}),
		SessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "How long games last.",
			Buckets:   []float64{10, 30, 60, 300, 900, 1800, 3600},
		}),
		ItemsCollected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_collected_total",
			Help:      "Item units added to inventories.",
		}, []string{"item"}),
		ItemsUsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_used_total",
			Help:      "Items consumed from the hand.",
		}, []string{"item"}),
		Pickups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pickups_total",
			Help:      "Finished pickup tasks by outcome.",
		}, []string{"outcome"}),
		ViewsOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "views_opened_total",
			Help:      "View switches by incoming view.",
		}, []string{"view"}),
	}

	cs := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ActiveSessions,
		m.SessionsTotal,
		m.SessionDuration,
		m.ItemsCollected,
		m.ItemsUsed,
		m.Pickups,
		m.ViewsOpened,
	}
	for _, c := range cs {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Prometheus) SessionStarted() {
	m.SessionsTotal.Inc()
	m.ActiveSessions.Inc()
}

func (m *Prometheus) SessionEnded(d time.Duration) {
	m.ActiveSessions.Dec()
	m.SessionDuration.Observe(d.Seconds())
}

func (m *Prometheus) ItemCollected(itemID string, amount int) {
	m.ItemsCollected.WithLabelValues(itemID).Add(float64(amount))
}

func (m *Prometheus) ItemUsed(itemID string) { m.ItemsUsed.WithLabelValues(itemID).Inc() }

func (m *Prometheus) PickupFinished(outcome string) { m.Pickups.WithLabelValues(outcome).Inc() }

func (m *Prometheus) ViewOpened(view string) { m.ViewsOpened.WithLabelValues(view).Inc() }
