package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the result publisher.
type Metrics struct {
	// Events by fate: published, dropped, sampled_out, failed, skipped_open
	Events *prometheus.CounterVec

	// Sink round trip per batch
	PublishLatency prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		Events: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudgate_audit_events_total",
			Help: "Inspection result events by fate",
		}, []string{"fate"}),

		PublishLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fraudgate_audit_publish_duration_seconds",
			Help:    "Time to publish one batch of result events",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) AddEvents(fate string, n int) {
	if m != nil && n > 0 {
		m.Events.WithLabelValues(fate).Add(float64(n))
	}
}

func (m *Metrics) ObservePublishLatency(d time.Duration) {
	if m != nil {
		m.PublishLatency.Observe(d.Seconds())
	}
}
