// Package inspector scores a transaction: it resolves the rules bound for the
// request, evaluates them in order, and aggregates the decisions into a risk
// score under one end-to-end deadline.
package inspector

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"fraudgate/internal/audit"
	"fraudgate/internal/domain"
	"fraudgate/internal/evaluation"
	"fraudgate/internal/evaluation/fields"
	"fraudgate/internal/inspector/metrics"
	"fraudgate/internal/resolver"
	"fraudgate/internal/verdict"
	dErrors "fraudgate/pkg/domain-errors"
	"fraudgate/pkg/requestcontext"
)

const (
	defaultRequestTimeout = 1500 * time.Millisecond
	defaultCallTimeout    = 300 * time.Millisecond
)

// Request is one transaction to score. Party, shop, and identity are read
// from the transaction.
type Request struct {
	Domain domain.Domain
	Tx     fields.Transaction
}

// Result is the scored request.
type Result struct {
	Score     verdict.RiskScore
	RuleID    string // empty when no rule matched
	Version   uint64
	Outcome   evaluation.Outcome
	Branch    string
	Scope     string
	Escalated bool
	Evaluated int
	Failed    int
}

// Resolver selects candidate rules.
type Resolver interface {
	Resolve(req resolver.Request) resolver.Resolution
}

// Evaluator runs one rule.
type Evaluator interface {
	Evaluate(ctx context.Context, rule domain.RuleDefinition, fc evaluation.FeatureContext) evaluation.Decision
}

// Aggregator folds decisions into a verdict.
type Aggregator interface {
	Aggregate(ctx context.Context, decisions iter.Seq[evaluation.Decision], track verdict.Track) (verdict.Verdict, error)
}

// Auditor records completed inspections. Emit must not block.
type Auditor interface {
	Emit(ctx context.Context, e audit.Event)
}

// Service is the request-facing entry point.
type Service struct {
	resolver   Resolver
	evaluator  Evaluator
	aggregator Aggregator
	sources    evaluation.Sources
	auditor    Auditor

	requestTimeout time.Duration
	callTimeout    time.Duration

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithSources sets the feature sources handed to rules.
func WithSources(src evaluation.Sources) Option {
	return func(s *Service) {
		s.sources = src
	}
}

// WithTimeouts sets the end-to-end deadline and the per external call cap.
func WithTimeouts(request, call time.Duration) Option {
	return func(s *Service) {
		if request > 0 {
			s.requestTimeout = request
		}
		if call > 0 {
			s.callTimeout = call
		}
	}
}

// WithAuditor publishes a result event for every scored request.
func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(r Resolver, e Evaluator, a Aggregator, opts ...Option) *Service {
	s := &Service{
		resolver:       r,
		evaluator:      e,
		aggregator:     a,
		requestTimeout: defaultRequestTimeout,
		callTimeout:    defaultCallTimeout,
		logger:         slog.Default(),
		tracer:         otel.Tracer("fraudgate/inspector"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Inspect scores req. Running out of the deadline yields CodeTimeout, never a
// score.
func (s *Service) Inspect(ctx context.Context, req Request) (*Result, error) {
	if !req.Domain.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown domain %q", req.Domain)
	}
	start := time.Now()
	now := requestcontext.Now(ctx)

	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "inspector.Inspect", trace.WithAttributes(
		attribute.String("domain", string(req.Domain)),
	))
	defer span.End()

	res := s.resolver.Resolve(resolver.Request{
		Domain:     req.Domain,
		PartyID:    req.Tx.PartyID,
		ShopID:     req.Tx.ShopID,
		IdentityID: req.Tx.IdentityID,
	})
	if len(res.Dangling) > 0 {
		s.metrics.AddDangling(len(res.Dangling))
		s.logger.WarnContext(ctx, "skipped references to undefined rules",
			"request_id", requestcontext.RequestID(ctx),
			"domain", req.Domain,
			"rule_ids", res.Dangling,
		)
	}
	span.SetAttributes(attribute.Int("candidates", len(res.Candidates)))

	fc := evaluation.NewFeatures(req.Domain, req.Tx, now, s.sources, s.callTimeout)
	subject := verdict.SubjectOf(req.Domain, req.Tx)
	v, err := s.aggregator.Aggregate(ctx, s.decisions(ctx, res.Candidates, fc), verdict.Track{
		Domain:  req.Domain,
		Subject: subject,
		At:      now,
	})
	s.metrics.ObserveInspectLatency(time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "inspection failed")
		s.metrics.IncrementInspection(string(req.Domain), string(dErrors.CodeOf(err)))
		return nil, err
	}

	out := &Result{
		Score:     v.Score,
		Escalated: v.Escalated,
		Evaluated: v.Evaluated,
		Failed:    len(v.Failed),
	}
	if d := v.Decision; d != nil {
		out.RuleID, out.Version, out.Outcome, out.Branch = d.RuleID, d.Version, d.Outcome, d.Branch
		for _, c := range res.Candidates {
			if c.Rule.RuleID == d.RuleID {
				out.Scope = c.Scope.String()
				break
			}
		}
	}
	span.SetAttributes(attribute.String("risk_score", string(out.Score)))
	s.metrics.IncrementInspection(string(req.Domain), string(out.Score))
	if s.auditor != nil {
		s.auditor.Emit(ctx, auditEvent(ctx, req, subject, now, out))
	}
	return out, nil
}

func auditEvent(ctx context.Context, req Request, subject string, at time.Time, r *Result) audit.Event {
	return audit.Event{
		Timestamp:   at,
		RequestID:   requestcontext.RequestID(ctx),
		Caller:      requestcontext.Caller(ctx),
		Domain:      string(req.Domain),
		PartyID:     req.Tx.PartyID,
		ShopID:      req.Tx.ShopID,
		IdentityID:  req.Tx.IdentityID,
		SubjectHash: audit.HashSubject(subject),
		RiskScore:   string(r.Score),
		RuleID:      r.RuleID,
		RuleVersion: r.Version,
		Outcome:     string(r.Outcome),
		Branch:      r.Branch,
		Scope:       r.Scope,
		Escalated:   r.Escalated,
		Evaluated:   r.Evaluated,
		Failed:      r.Failed,
	}
}

// Resolve exposes the candidate list for operators.
func (s *Service) Resolve(req resolver.Request) resolver.Resolution {
	return s.resolver.Resolve(req)
}

// decisions evaluates candidates lazily, in order. Once the deadline is gone
// no further rule is started.
func (s *Service) decisions(ctx context.Context, candidates []resolver.Candidate, fc evaluation.FeatureContext) iter.Seq[evaluation.Decision] {
	return func(yield func(evaluation.Decision) bool) {
		for _, c := range candidates {
			if err := ctx.Err(); err != nil {
				yield(evaluation.Decision{
					RuleID:  c.Rule.RuleID,
					Version: c.Rule.Version,
					Err:     dErrors.Wrap(err, dErrors.CodeTimeout, "request deadline exceeded before rule evaluation"),
				})
				return
			}
			if !yield(s.evaluator.Evaluate(ctx, c.Rule, fc)) {
				return
			}
		}
	}
}
