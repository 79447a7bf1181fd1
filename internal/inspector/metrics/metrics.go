package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the inspection path.
type Metrics struct {
	// Inspections by domain and result (risk score or error code)
	Inspections *prometheus.CounterVec

	// References to undefined rules skipped during resolution
	DanglingReferences prometheus.Counter

	// End-to-end inspection latency
	InspectLatency prometheus.Histogram
}

// New creates a new Metrics instance with all inspection metrics registered.
func New() *Metrics {
	return &Metrics{
		Inspections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudgate_inspections_total",
			Help: "Inspections by domain and result",
		}, []string{"domain", "result"}),

		DanglingReferences: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fraudgate_dangling_references_total",
			Help: "Bindings or group entries pointing at undefined rules, seen during resolution",
		}),

		InspectLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fraudgate_inspect_duration_seconds",
			Help:    "Duration of a full inspection including rule evaluation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

func (m *Metrics) IncrementInspection(domain, result string) {
	if m != nil {
		m.Inspections.WithLabelValues(domain, result).Inc()
	}
}

func (m *Metrics) AddDangling(n int) {
	if m != nil {
		m.DanglingReferences.Add(float64(n))
	}
}

func (m *Metrics) ObserveInspectLatency(d time.Duration) {
	if m != nil {
		m.InspectLatency.Observe(d.Seconds())
	}
}
