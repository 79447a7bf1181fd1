// Package verdict turns the ordered rule decisions of a request into one
// risk score.
package verdict

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"fraudgate/internal/domain"
	"fraudgate/internal/evaluation"
	"fraudgate/internal/verdict/metrics"
	dErrors "fraudgate/pkg/domain-errors"
)

// RiskScore is the final classification of a request.
type RiskScore string

const (
	RiskLow   RiskScore = "LOW"
	RiskHigh  RiskScore = "HIGH"
	RiskFatal RiskScore = "FATAL"
)

// ScoreOf maps a matched outcome to its nominal score.
func ScoreOf(o evaluation.Outcome) RiskScore {
	switch o {
	case evaluation.OutcomeNotify, evaluation.OutcomeDecline:
		return RiskHigh
	default:
		return RiskLow
	}
}

// Track says whose history escalation consults.
type Track struct {
	Domain  domain.Domain
	Subject string
	At      time.Time
}

// Verdict is the aggregated result. Decision is the first matching decision,
// nil when no rule matched.
type Verdict struct {
	Score     RiskScore
	Decision  *evaluation.Decision
	Escalated bool
	Evaluated int
	Failed    []evaluation.Decision
}

// Aggregator applies the first-match policy.
type Aggregator struct {
	escalator Escalator
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures an Aggregator.
type Option func(*Aggregator)

func WithEscalator(e Escalator) Option {
	return func(a *Aggregator) {
		if e != nil {
			a.escalator = e
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) {
		a.metrics = m
	}
}

func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		escalator: NoEscalation{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate pulls decisions in order and stops at the first match, so rules
// after it are never evaluated. Failed decisions count as non-matching. A
// decision that ran out of the request deadline aborts aggregation with
// CodeTimeout instead of producing a score.
func (a *Aggregator) Aggregate(ctx context.Context, decisions iter.Seq[evaluation.Decision], track Track) (Verdict, error) {
	v := Verdict{Score: RiskLow}
	for d := range decisions {
		v.Evaluated++
		if d.Err != nil {
			if dErrors.HasCode(d.Err, dErrors.CodeTimeout) {
				a.metrics.IncrementVerdict(string(track.Domain), "timeout")
				return Verdict{}, d.Err
			}
			v.Failed = append(v.Failed, d)
			continue
		}
		if !d.Matched {
			continue
		}
		v.Decision = &d
		v.Score = ScoreOf(d.Outcome)
		escalated, err := a.escalate(ctx, d, track)
		if err != nil {
			a.metrics.IncrementVerdict(string(track.Domain), "timeout")
			return Verdict{}, err
		}
		v.Escalated = escalated
		if v.Escalated && v.Score == RiskHigh {
			v.Score = RiskFatal
		}
		break
	}
	a.metrics.IncrementVerdict(string(track.Domain), string(v.Score))
	return v, nil
}

// escalate fails open: a broken recency store never changes the score. The
// only error it returns is CodeTimeout, when the request deadline ran out
// during the lookup.
func (a *Aggregator) escalate(ctx context.Context, d evaluation.Decision, track Track) (bool, error) {
	key := Key{Domain: track.Domain, RuleID: d.RuleID, Subject: track.Subject}
	ok, err := a.escalator.Escalate(ctx, key, d.Outcome, track.At)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, dErrors.Wrap(ctxErr, dErrors.CodeTimeout, "request deadline exceeded during escalation check")
		}
		a.metrics.IncrementEscalationError()
		a.logger.WarnContext(ctx, "escalation check failed, keeping nominal score",
			"rule_id", d.RuleID,
			"error", err,
		)
		return false, nil
	}
	if ok {
		a.metrics.IncrementEscalation(string(track.Domain))
	}
	return ok, nil
}
