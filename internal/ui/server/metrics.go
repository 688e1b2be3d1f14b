package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Its-donkey/pricing-protocol/internal/ui/state"
)

// metrics lives on its own registry so several servers can coexist in tests.
type metrics struct {
	registry    *prometheus.Registry
	renders     *prometheus.CounterVec
	transitions *prometheus.CounterVec
	mounts      prometheus.Counter
	expired     prometheus.Counter
}

func newMetrics(store *state.Store) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pricing_ui",
			Name:      "page_renders_total",
			Help:      "Pages rendered, by template.",
		}, []string{"page"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pricing_ui",
			Name:      "dialog_transitions_total",
			Help:      "Dialog open/close transitions applied.",
		}, []string{"dialog", "action"}),
		mounts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pricing_ui",
			Name:      "view_mounts_total",
			Help:      "Page instances created.",
		}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pricing_ui",
			Name:      "view_expired_total",
			Help:      "Page instances removed by the sweeper.",
		}),
	}
	m.registry.MustRegister(
		m.renders,
		m.transitions,
		m.mounts,
		m.expired,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "pricing_ui",
			Name:      "view_instances",
			Help:      "Page instances currently held.",
		}, func() float64 { return float64(store.Len()) }),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
