package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the rule registry.
type Metrics struct {
	// Materialized entries by domain and entity kind
	Entries *prometheus.GaugeVec

	// Apply results by entity kind and result
	Applied *prometheus.CounterVec

	// Last assigned rule version
	Version prometheus.Gauge
}

// New creates a new Metrics instance with all registry metrics registered.
func New() *Metrics {
	return &Metrics{
		Entries: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fraudgate_registry_entries",
			Help: "Number of materialized registry entries by domain and kind",
		}, []string{"domain", "kind"}), // kind: "rule", "binding", "group", "group_reference"

		Applied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudgate_registry_applied_total",
			Help: "Commands applied to the registry by kind and result",
		}, []string{"kind", "result"}),

		Version: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "fraudgate_registry_version",
			Help: "Last rule version assigned by the registry",
		}),
	}
}

// AddEntries adjusts the size of one registry table.
func (m *Metrics) AddEntries(domain, kind string, delta int) {
	if m != nil && delta != 0 {
		m.Entries.WithLabelValues(domain, kind).Add(float64(delta))
	}
}

// IncrementApplied records an apply result.
func (m *Metrics) IncrementApplied(kind, result string) {
	if m != nil {
		m.Applied.WithLabelValues(kind, result).Inc()
	}
}

// SetVersion records the version sequence.
func (m *Metrics) SetVersion(v uint64) {
	if m != nil {
		m.Version.Set(float64(v))
	}
}
