package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/pageflow/pkg/domain"
)

// Selection results used as the "result" label.
const (
	ResultResolved   = "resolved"
	ResultUnresolved = "unresolved"
)

// Metrics holds the engine counters.
type Metrics struct {
	Renders    *prometheus.CounterVec
	Selections *prometheus.CounterVec
	Unresolved *prometheus.CounterVec
	Fallbacks  prometheus.Counter
	gatherer   prometheus.Gatherer
}

// NewMetrics creates the counters and registers them with reg.
// A nil reg uses the default Prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pageflow_renders_total",
				Help: "Total number of pages rendered",
			},
			[]string{"page", "kind"},
		),
		Selections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pageflow_selections_total",
				Help: "Total number of selections resolved or not",
			},
			[]string{"page", "result"},
		),
		Unresolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pageflow_unresolved_total",
				Help: "Unresolved selections by reason",
			},
			[]string{"reason"},
		),
		Fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pageflow_fallbacks_total",
			Help: "Renders that fell back to the restart message",
		}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.Renders, m.Selections, m.Unresolved, m.Fallbacks)

	m.gatherer = prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// Hooks returns lifecycle hooks that record into the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRender: func(_ context.Context, e *domain.RenderEvent) {
			if e.Fallback {
				m.Fallbacks.Inc()
				return
			}
			m.Renders.WithLabelValues(e.Page, string(e.Kind)).Inc()
		},
		OnSelect: func(_ context.Context, e *domain.SelectEvent) {
			result := ResultResolved
			if !e.Outcome.Resolved() {
				result = ResultUnresolved
			}
			m.Selections.WithLabelValues(e.Page, result).Inc()
		},
		OnUnresolved: func(_ context.Context, e *domain.SelectEvent) {
			m.Unresolved.WithLabelValues(string(e.Outcome.Reason)).Inc()
		},
	}
}

// Handler serves the registry the metrics were registered with.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
