// Package lists checks transaction attributes against the black and white
// lists owned by the list service.
package lists

import (
	"context"
	"errors"
	"log/slog"

	"fraudgate/internal/evaluation/fields"
	dErrors "fraudgate/pkg/domain-errors"
	"fraudgate/pkg/platform/circuit"
	"fraudgate/pkg/platform/sentinel"
)

// ListType names a list family.
type ListType string

const (
	Black ListType = "black"
	White ListType = "white"
)

// Pair is a field and the value to look up. A nil Value means the
// attribute is absent.
type Pair struct {
	Field fields.Field
	Value *string
}

// Of builds a pair with a present value.
func Of(f fields.Field, value string) Pair {
	return Pair{Field: f, Value: &value}
}

// Entry is a filtered, non-empty lookup value.
type Entry struct {
	Field fields.Field
	Value string
}

// Query is one batched existence check. Entries are never empty.
type Query struct {
	List    ListType
	PartyID string
	ShopID  string
	Entries []Entry
}

//go:generate mockgen -source=checker.go -destination=mocks/mocks.go -package=mocks Service

// Service is the external list store.
type Service interface {
	ExistsAny(ctx context.Context, q Query) (bool, error)
}

// Checker filters lookups before they reach the list service.
type Checker struct {
	svc     Service
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBreaker overrides the circuit breaker.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Checker) {
		if b != nil {
			c.breaker = b
		}
	}
}

// New creates a Checker.
func New(svc Service, opts ...Option) (*Checker, error) {
	if svc == nil {
		return nil, errors.New("list service is required")
	}
	c := &Checker{
		svc:     svc,
		breaker: circuit.New("list-service"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FindInBlackList reports whether any non-empty value is blacklisted for the
// party and shop. When every value is empty or absent it returns false
// without calling the list service.
func (c *Checker) FindInBlackList(ctx context.Context, partyID, shopID string, pairs []Pair) (bool, error) {
	return c.find(ctx, Black, partyID, shopID, pairs)
}

// FindInWhiteList is FindInBlackList for the white list.
func (c *Checker) FindInWhiteList(ctx context.Context, partyID, shopID string, pairs []Pair) (bool, error) {
	return c.find(ctx, White, partyID, shopID, pairs)
}

func (c *Checker) find(ctx context.Context, list ListType, partyID, shopID string, pairs []Pair) (bool, error) {
	entries := filter(pairs)
	if len(entries) == 0 {
		return false, nil
	}

	if !c.breaker.Allow() {
		return false, dErrors.Wrap(sentinel.ErrCircuitOpen, dErrors.CodeExternalService, "list service unavailable")
	}

	found, err := c.svc.ExistsAny(ctx, Query{List: list, PartyID: partyID, ShopID: shopID, Entries: entries})
	if err != nil {
		if _, change := c.breaker.RecordFailure(); change.Opened {
			c.logger.WarnContext(ctx, "list service circuit opened", "error", err)
		}
		return false, dErrors.Wrap(err, dErrors.CodeExternalService, "list lookup failed")
	}
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "list service circuit closed")
	}
	return found, nil
}

func filter(pairs []Pair) []Entry {
	var out []Entry
	for _, p := range pairs {
		if p.Value == nil || *p.Value == "" {
			continue
		}
		out = append(out, Entry{Field: p.Field, Value: *p.Value})
	}
	return out
}
