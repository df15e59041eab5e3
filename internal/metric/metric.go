package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fourheat"

// Metric records refresh and command outcomes for one stove.
type Metric struct {
	reg          *prometheus.Registry
	refreshes    *prometheus.CounterVec
	commands     *prometheus.CounterVec
	fetchSeconds prometheus.Summary
}

// New registers the collectors on a private registry labelled with stoveID.
func New(stoveID string) *Metric {
	constLabels := prometheus.Labels{"stove_id": stoveID}
	m := &Metric{
		reg: prometheus.NewRegistry(),
		refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Name:        "refresh_total",
				Help:        "Refresh calls by outcome.",
				ConstLabels: constLabels,
			},
			[]string{"outcome"},
		),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Name:        "command_total",
				Help:        "Commands sent to the stove by outcome.",
				ConstLabels: constLabels,
			},
			[]string{"command", "outcome"},
		),
		fetchSeconds: prometheus.NewSummary(
			prometheus.SummaryOpts{
				Namespace:   namespace,
				Name:        "fetch_seconds",
				Help:        "Duration of one data fetch, error query included.",
				ConstLabels: constLabels,
				Objectives:  map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
		),
	}

	m.reg.MustRegister(
		m.refreshes,
		m.commands,
		m.fetchSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metric) RefreshOutcome(outcome string) {
	m.refreshes.
		WithLabelValues(outcome).
		Inc()
}

func (m *Metric) CommandOutcome(command, outcome string) {
	m.commands.
		WithLabelValues(command, outcome).
		Inc()
}

func (m *Metric) FetchTiming(start time.Time) {
	m.fetchSeconds.Observe(time.Since(start).Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metric) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
