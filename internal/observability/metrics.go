// Package observability aggregates the shell's runtime counters behind a
// single registry that the viewer server exposes on /metrics.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters the shell and loader feed.
type Metrics struct {
	registry *prometheus.Registry

	dispatches    *prometheus.CounterVec
	loads         prometheus.Counter
	loadFailures  prometheus.Counter
	activeProgram prometheus.Gauge
}

// New creates an isolated registry so tests never collide on the default one.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cozmo_cli_dispatches_total",
			Help: "Input lines dispatched, by command category.",
		}, []string{"category"}),
		loads: factory.NewCounter(prometheus.CounterOpts{
			Name: "cozmo_cli_program_loads_total",
			Help: "Successful program loads.",
		}),
		loadFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "cozmo_cli_program_load_failures_total",
			Help: "Program loads that failed name, resolve, or shape checks.",
		}),
		activeProgram: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cozmo_cli_active_program",
			Help: "1 while a program occupies the active slot.",
		}),
	}
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Dispatch counts one dispatched line under its category.
func (m *Metrics) Dispatch(category string) {
	m.dispatches.WithLabelValues(category).Inc()
}

// ProgramLoaded counts a successful load.
func (m *Metrics) ProgramLoaded() { m.loads.Inc() }

// ProgramLoadFailed counts a failed load.
func (m *Metrics) ProgramLoadFailed() { m.loadFailures.Inc() }

// SetActive records whether the active slot is occupied.
func (m *Metrics) SetActive(active bool) {
	if active {
		m.activeProgram.Set(1)
		return
	}
	m.activeProgram.Set(0)
}
