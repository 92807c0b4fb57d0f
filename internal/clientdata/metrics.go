package clientdata

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records cache behaviour in Prometheus.
type Metrics struct {
	lookups       *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	sharedFetches prometheus.Counter
	corrupt       prometheus.Counter
	writeErrors   prometheus.Counter
}

// NewMetrics registers the cache collectors on reg. A nil reg gets a
// private registry so independent caches never clash.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		lookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espresso_cache_lookups_total",
				Help: "Cache lookups by kind and resulting state",
			},
			[]string{"kind", "state"},
		),
		fetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espresso_cache_fetches_total",
				Help: "Upstream fetches triggered by cache misses",
			},
			[]string{"kind", "result"},
		),
		sharedFetches: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "espresso_cache_shared_fetches_total",
				Help: "Misses that waited on another caller's fetch of the same key",
			},
		),
		corrupt: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "espresso_cache_corrupt_total",
				Help: "Cache documents that could not be read or decoded",
			},
		),
		writeErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "espresso_cache_write_errors_total",
				Help: "Failed file tier writes",
			},
		),
	}
}

func (m *Metrics) recordLookup(kind Kind, state State) {
	m.lookups.WithLabelValues(string(kind), string(state)).Inc()
}

func (m *Metrics) recordFetch(kind Kind, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.fetches.WithLabelValues(string(kind), result).Inc()
}
