package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for verdict aggregation.
type Metrics struct {
	// Verdicts by domain and score ("LOW", "HIGH", "FATAL", "timeout")
	Verdicts *prometheus.CounterVec

	// Escalations to FATAL by domain
	Escalations *prometheus.CounterVec

	// Recency store failures (escalation skipped)
	EscalationErrors prometheus.Counter
}

// New creates a new Metrics instance with all verdict metrics registered.
func New() *Metrics {
	return &Metrics{
		Verdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudgate_verdicts_total",
			Help: "Verdicts by domain and risk score",
		}, []string{"domain", "score"}),

		Escalations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudgate_escalations_total",
			Help: "Repeat-offender escalations to FATAL by domain",
		}, []string{"domain"}),

		EscalationErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fraudgate_escalation_errors_total",
			Help: "Escalation checks skipped because the recency store failed",
		}),
	}
}

func (m *Metrics) IncrementVerdict(domain, score string) {
	if m != nil {
		m.Verdicts.WithLabelValues(domain, score).Inc()
	}
}

func (m *Metrics) IncrementEscalation(domain string) {
	if m != nil {
		m.Escalations.WithLabelValues(domain).Inc()
	}
}

func (m *Metrics) IncrementEscalationError() {
	if m != nil {
		m.EscalationErrors.Inc()
	}
}
