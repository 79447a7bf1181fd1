package evaluation

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"fraudgate/internal/domain"
	"fraudgate/internal/evaluation/metrics"
	dErrors "fraudgate/pkg/domain-errors"
)

// Decision is the outcome of evaluating one rule. A failed evaluation is a
// non-match with Err set.
type Decision struct {
	RuleID  string
	Version uint64
	Matched bool
	Outcome Outcome
	Branch  string
	Err     error
}

type compiled struct {
	version uint64
	rule    CompiledRule
	err     error
}

// Adapter compiles each rule version once and evaluates it per request.
type Adapter struct {
	interp  Interpreter
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer

	mu    sync.RWMutex
	cache map[string]compiled // by rule id, latest version only
	group singleflight.Group
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Adapter) {
		a.metrics = m
	}
}

// NewAdapter creates an Adapter over interp.
func NewAdapter(interp Interpreter, opts ...Option) (*Adapter, error) {
	if interp == nil {
		return nil, errors.New("interpreter is required")
	}
	a := &Adapter{
		interp: interp,
		logger: slog.Default(),
		tracer: otel.Tracer("fraudgate/evaluation"),
		cache:  make(map[string]compiled),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Evaluate runs rule against fc. Compile errors, interpreter errors, and
// feature failures are reported and yield a non-match. Deadline exhaustion
// yields a Decision whose Err carries CodeTimeout.
func (a *Adapter) Evaluate(ctx context.Context, rule domain.RuleDefinition, fc FeatureContext) Decision {
	ctx, span := a.tracer.Start(ctx, "evaluation.Evaluate", trace.WithAttributes(
		attribute.String("rule.id", rule.RuleID),
		attribute.Int64("rule.version", int64(rule.Version)),
	))
	defer span.End()

	d := Decision{RuleID: rule.RuleID, Version: rule.Version}

	prog, err := a.compile(rule)
	if err != nil {
		return a.fail(ctx, span, d, err)
	}

	start := time.Now()
	res, err := a.interp.Run(ctx, prog, fc)
	a.metrics.ObserveRunLatency(time.Since(start))
	if err != nil {
		if ctx.Err() != nil && !dErrors.HasCode(err, dErrors.CodeTimeout) {
			err = dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "request deadline exceeded during rule evaluation")
		}
		return a.fail(ctx, span, d, err)
	}

	if !res.Matched {
		a.metrics.IncrementEvaluation("no_match")
		return d
	}
	d.Matched, d.Outcome, d.Branch = true, res.Outcome, res.Branch
	span.SetAttributes(attribute.String("rule.outcome", string(res.Outcome)))
	a.metrics.IncrementEvaluation("match")
	return d
}

func (a *Adapter) fail(ctx context.Context, span trace.Span, d Decision, err error) Decision {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeTimeout, dErrors.CodeUnknownField, dErrors.CodeExternalService, dErrors.CodeInterpreter:
	default:
		err = dErrors.Wrap(err, dErrors.CodeInterpreter, "rule evaluation failed")
	}
	code := dErrors.CodeOf(err)
	d.Err = err
	span.RecordError(err)
	a.metrics.IncrementEvaluation("error")
	a.metrics.IncrementFailure(string(code))
	a.logger.WarnContext(ctx, "rule evaluation failed, treating as no match",
		"rule_id", d.RuleID,
		"version", d.Version,
		"code", code,
		"error", err,
	)
	return d
}

// compile returns the cached program for the rule version, compiling it at
// most once. Compile errors are cached for the version too.
func (a *Adapter) compile(rule domain.RuleDefinition) (CompiledRule, error) {
	a.mu.RLock()
	c, ok := a.cache[rule.RuleID]
	a.mu.RUnlock()
	if ok && c.version == rule.Version {
		return c.rule, c.err
	}

	key := rule.RuleID + "@" + strconv.FormatUint(rule.Version, 10)
	v, _, _ := a.group.Do(key, func() (any, error) {
		a.mu.RLock()
		c, ok := a.cache[rule.RuleID]
		a.mu.RUnlock()
		if ok && c.version == rule.Version {
			return c, nil
		}

		prog, err := a.interp.Compile(rule.Source)
		if err != nil {
			a.metrics.IncrementCompilation("error")
			err = dErrors.Wrap(err, dErrors.CodeInterpreter, "rule compilation failed")
		} else {
			a.metrics.IncrementCompilation("ok")
		}
		entry := compiled{version: rule.Version, rule: prog, err: err}

		a.mu.Lock()
		// Older snapshots may still evaluate a superseded version; never let
		// them evict the newer program.
		if cur, ok := a.cache[rule.RuleID]; !ok || cur.version <= rule.Version {
			a.cache[rule.RuleID] = entry
		}
		a.mu.Unlock()
		return entry, nil
	})
	entry := v.(compiled)
	return entry.rule, entry.err
}

// Cached reports the cached version of ruleID.
func (a *Adapter) Cached(ruleID string) (uint64, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	c, ok := a.cache[ruleID]
	return c.version, ok
}
