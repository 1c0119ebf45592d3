package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "userdirectory"

type Metrics struct {
	Counter      *prometheus.CounterVec
	StoreLatency *prometheus.HistogramVec
}

// New registers the service collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Counter: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "general_counters",
			},
			[]string{"result"}),
		StoreLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_operation_seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"}),
	}
}

func (m *Metrics) Inc(result string) {
	if m == nil {
		return
	}
	m.Counter.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveStore(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.StoreLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
