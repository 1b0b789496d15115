package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the assistant's prometheus collectors on a private registry.
// All methods are safe on a nil receiver, which records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	turns         prometheus.Counter
	searches      *prometheus.CounterVec
	scrapes       *prometheus.CounterVec
	degradations  *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		turns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grocer_turns_total",
			Help: "Conversation turns processed.",
		}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grocer_search_requests_total",
			Help: "Web search calls per retailer domain.",
		}, []string{"retailer", "status"}),
		scrapes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grocer_scrape_requests_total",
			Help: "Page scrape attempts.",
		}, []string{"status"}),
		degradations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grocer_degradations_total",
			Help: "Components that fell back to a degraded result.",
		}, []string{"component", "reason"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "grocer_stage_duration_seconds",
			Help:    "Wall time of each turn stage.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"stage"}),
	}
	reg.MustRegister(
		m.turns, m.searches, m.scrapes, m.degradations, m.stageDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) TurnStarted() {
	if m == nil {
		return
	}
	m.turns.Inc()
}

func (m *Metrics) SearchRequest(retailer string, ok bool) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(retailer, status(ok)).Inc()
}

func (m *Metrics) ScrapeRequest(ok bool) {
	if m == nil {
		return
	}
	m.scrapes.WithLabelValues(status(ok)).Inc()
}

func (m *Metrics) Degraded(component, reason string) {
	if m == nil {
		return
	}
	m.degradations.WithLabelValues(component, reason).Inc()
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func status(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
