package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for command consumption.
type Metrics struct {
	// Commands handled by topic and result
	Commands *prometheus.CounterVec

	// Last applied offset by topic and partition
	AppliedOffset *prometheus.GaugeVec
}

// New creates a new Metrics instance with all command log metrics registered.
func New() *Metrics {
	return &Metrics{
		Commands: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudgate_commandlog_commands_total",
			Help: "Commands consumed by topic and result",
		}, []string{"topic", "result"}), // result: registry apply result or "malformed"

		AppliedOffset: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fraudgate_commandlog_applied_offset",
			Help: "Offset of the last command applied to the registry",
		}, []string{"topic", "partition"}),
	}
}

// IncrementCommand records a handled command.
func (m *Metrics) IncrementCommand(topic, result string) {
	if m != nil {
		m.Commands.WithLabelValues(topic, result).Inc()
	}
}

// SetAppliedOffset records the last applied offset of a partition.
func (m *Metrics) SetAppliedOffset(topic, partition string, offset int64) {
	if m != nil {
		m.AppliedOffset.WithLabelValues(topic, partition).Set(float64(offset))
	}
}
