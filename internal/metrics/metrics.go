// Package metrics exposes Prometheus instrumentation for the serving
// layer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the service's metric instruments behind a private registry
// so the default Go collectors don't leak into scrape output.
type Manager struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	simulationsRun  prometheus.Counter
	simulationFails prometheus.Counter
	eventsGenerated prometheus.Counter
	runDuration     prometheus.Histogram
	historySize     prometheus.Gauge
}

func NewManager() *Manager {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Manager{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "darksim",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		}, []string{"endpoint", "code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "darksim",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		simulationsRun: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "darksim",
			Name:      "simulations_total",
			Help:      "Completed simulation runs.",
		}),
		simulationFails: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "darksim",
			Name:      "simulation_failures_total",
			Help:      "Simulation runs rejected or failed.",
		}),
		eventsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "darksim",
			Name:      "events_generated_total",
			Help:      "Detection events recorded across all runs.",
		}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "darksim",
			Name:      "run_duration_seconds",
			Help:      "Wall time per simulation run.",
			Buckets:   prometheus.DefBuckets,
		}),
		historySize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "darksim",
			Name:      "history_entries",
			Help:      "Results currently retained in the history store.",
		}),
	}
}

func (m *Manager) ObserveRequest(endpoint, code string, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(endpoint, code).Inc()
	m.httpDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Manager) ObserveRun(events int, elapsed time.Duration) {
	m.simulationsRun.Inc()
	m.eventsGenerated.Add(float64(events))
	m.runDuration.Observe(elapsed.Seconds())
}

func (m *Manager) ObserveRunFailure() {
	m.simulationFails.Inc()
}

func (m *Manager) SetHistorySize(n int) {
	m.historySize.Set(float64(n))
}

// Handler serves the scrape endpoint for this manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
