package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts gateway actions by name and outcome.
type Metrics struct {
	actions *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		actions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "kustodia_gateway_actions_total",
			Help: "Gateway actions processed, by action name and outcome.",
		}, []string{"action", "outcome"}),
	}
}

func (m *Metrics) ObserveAction(action string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.actions.WithLabelValues(action, outcome).Inc()
}
