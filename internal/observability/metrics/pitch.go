package metrics

import "github.com/prometheus/client_golang/prometheus"

// PitchMetrics exposes counters for application lifecycle transitions.
type PitchMetrics struct {
	transitionsTotal *prometheus.CounterVec
}

func NewPitchMetrics(reg prometheus.Registerer) *PitchMetrics {
	m := &PitchMetrics{
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caretap",
			Subsystem: "pitch",
			Name:      "transitions_total",
			Help:      "Total pitch lifecycle operations by outcome",
		}, []string{"operation", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.transitionsTotal)
	return m
}

func (m *PitchMetrics) ObserveTransition(operation, outcome string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(operation, outcome).Inc()
}
