package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for rule evaluation.
type Metrics struct {
	// Evaluations by result: "match", "no_match", "error"
	Evaluations *prometheus.CounterVec

	// Evaluation failures by error code
	Failures *prometheus.CounterVec

	// Compilations by result: "ok", "error"
	Compilations *prometheus.CounterVec

	// Single rule run latency
	RunLatency prometheus.Histogram
}

// New creates a new Metrics instance with all evaluation metrics registered.
func New() *Metrics {
	return &Metrics{
		Evaluations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudgate_rule_evaluations_total",
			Help: "Rule evaluations by result",
		}, []string{"result"}),

		Failures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudgate_rule_evaluation_failures_total",
			Help: "Rule evaluation failures by error code",
		}, []string{"code"}),

		Compilations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudgate_rule_compilations_total",
			Help: "Rule compilations by result",
		}, []string{"result"}),

		RunLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fraudgate_rule_run_duration_seconds",
			Help:    "Duration of a single rule run including feature lookups",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),
	}
}

func (m *Metrics) IncrementEvaluation(result string) {
	if m != nil {
		m.Evaluations.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncrementFailure(code string) {
	if m != nil {
		m.Failures.WithLabelValues(code).Inc()
	}
}

func (m *Metrics) IncrementCompilation(result string) {
	if m != nil {
		m.Compilations.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) ObserveRunLatency(d time.Duration) {
	if m != nil {
		m.RunLatency.Observe(d.Seconds())
	}
}
