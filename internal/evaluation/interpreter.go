// Package evaluation runs rule scripts through a pluggable interpreter and
// supplies them with transaction features.
package evaluation

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	dErrors "fraudgate/pkg/domain-errors"
)

// Outcome is what a matched rule asks for.
type Outcome string

const (
	OutcomeAccept  Outcome = "ACCEPT"
	OutcomeDecline Outcome = "DECLINE"
	OutcomeNotify  Outcome = "NOTIFY"
)

// ParseOutcome accepts outcome names case-insensitively.
func ParseOutcome(s string) (Outcome, error) {
	switch o := Outcome(strings.ToUpper(strings.TrimSpace(s))); o {
	case OutcomeAccept, OutcomeDecline, OutcomeNotify:
		return o, nil
	default:
		return "", dErrors.Newf(dErrors.CodeInterpreter, "unknown outcome %q", s)
	}
}

// CompiledRule is an interpreter-specific compiled form. It must be safe to
// run concurrently.
type CompiledRule any

// Result is one run of a compiled rule. Outcome and Branch are set only when
// Matched.
type Result struct {
	Matched bool
	Outcome Outcome
	Branch  string
}

//go:generate mockgen -source=interpreter.go -destination=mocks/mocks.go -package=mocks Interpreter,FeatureContext

// Interpreter compiles rule sources once and runs them many times.
type Interpreter interface {
	Compile(source []byte) (CompiledRule, error)
	Run(ctx context.Context, rule CompiledRule, fc FeatureContext) (Result, error)
}

// FeatureContext is what a running rule may ask about the transaction.
// Errors carry CodeUnknownField, CodeExternalService, or CodeTimeout.
type FeatureContext interface {
	Field(name string) (string, error)
	Count(ctx context.Context, field string, window time.Duration) (int64, error)
	Sum(ctx context.Context, field string, window time.Duration) (decimal.Decimal, error)
	InBlackList(ctx context.Context, fieldNames ...string) (bool, error)
	InWhiteList(ctx context.Context, fieldNames ...string) (bool, error)
	CountryBy(ctx context.Context, field string) (string, error)
}
