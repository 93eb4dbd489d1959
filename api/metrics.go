package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	duration *prometheus.HistogramVec
}

// NewMetrics creates the client collectors and registers them on reg when it
// is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "backoffice",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of backend API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
	if reg != nil {
		reg.MustRegister(m.duration)
	}
	return m
}

func (m *Metrics) observe(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.duration.WithLabelValues(method, label).Observe(elapsed.Seconds())
}
