package metrics

import "github.com/prometheus/client_golang/prometheus"

// SearchMetrics exposes counters/histograms for discovery queries.
type SearchMetrics struct {
	searchesTotal *prometheus.CounterVec
	snapshotLoads *prometheus.CounterVec
	searchLatency *prometheus.HistogramVec
}

func NewSearchMetrics(reg prometheus.Registerer) *SearchMetrics {
	m := &SearchMetrics{
		searchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caretap",
			Subsystem: "search",
			Name:      "queries_total",
			Help:      "Total search queries by candidate kind and status",
		}, []string{"kind", "status"}),
		snapshotLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caretap",
			Subsystem: "search",
			Name:      "snapshot_loads_total",
			Help:      "Geo-bounded snapshot loads by source (cache or store)",
		}, []string{"kind", "source"}),
		searchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "caretap",
			Subsystem: "search",
			Name:      "query_latency_seconds",
			Help:      "Latency of search queries",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.searchesTotal, m.snapshotLoads, m.searchLatency)
	return m
}

func (m *SearchMetrics) ObserveQuery(kind, status string) {
	if m == nil {
		return
	}
	m.searchesTotal.WithLabelValues(kind, status).Inc()
}

func (m *SearchMetrics) ObserveSnapshotLoad(kind, source string) {
	if m == nil {
		return
	}
	m.snapshotLoads.WithLabelValues(kind, source).Inc()
}

func (m *SearchMetrics) ObserveQueryLatency(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.searchLatency.WithLabelValues(kind).Observe(seconds)
}
