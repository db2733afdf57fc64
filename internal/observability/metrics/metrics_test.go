package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPitchMetricsObserve(t *testing.T) {
	m := NewPitchMetrics(prometheus.NewRegistry())
	m.ObserveTransition("create", "ok")
	m.ObserveTransition("accept", "invalid_transition")
}

func TestSearchMetricsObserve(t *testing.T) {
	m := NewSearchMetrics(prometheus.NewRegistry())
	m.ObserveQuery("doctors", "ok")
	m.ObserveSnapshotLoad("doctors", "cache")
	m.ObserveQueryLatency("doctors", 0.02)
}

func TestNilReceiversAreSafe(t *testing.T) {
	var pm *PitchMetrics
	var sm *SearchMetrics
	pm.ObserveTransition("create", "ok")
	sm.ObserveQuery("clinics", "ok")
	sm.ObserveSnapshotLoad("clinics", "store")
	sm.ObserveQueryLatency("clinics", 0.1)
}
