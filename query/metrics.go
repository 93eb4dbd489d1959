package query

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

// NewMetrics creates the cache collectors and registers them on reg when it
// is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Subsystem: "query_cache",
			Name:      name,
			Help:      help,
		}, labels)
	}
	m := &Metrics{
		hits:          counter("hits_total", "Reads served from a fresh cache entry.", "namespace"),
		misses:        counter("misses_total", "Reads that found no fresh cache entry.", "namespace"),
		fetches:       counter("fetches_total", "Fetches issued to the backend.", "namespace", "result"),
		invalidations: counter("invalidations_total", "Namespace invalidations.", "namespace"),
	}
	if reg != nil {
		reg.MustRegister(m.hits, m.misses, m.fetches, m.invalidations)
	}
	return m
}

func (m *Metrics) hit(ns string) {
	if m != nil {
		m.hits.WithLabelValues(ns).Inc()
	}
}

func (m *Metrics) miss(ns string) {
	if m != nil {
		m.misses.WithLabelValues(ns).Inc()
	}
}

func (m *Metrics) fetched(ns string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.fetches.WithLabelValues(ns, result).Inc()
}

func (m *Metrics) invalidated(ns string) {
	if m != nil {
		m.invalidations.WithLabelValues(ns).Inc()
	}
}
