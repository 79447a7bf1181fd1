// Package aggregates answers windowed count and sum questions over the
// payment history owned by the analytics store.
package aggregates

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fraudgate/internal/domain"
	"fraudgate/internal/evaluation/fields"
)

// Query selects historical events of the domain whose Field equals Value
// within the Window ending at Now.
type Query struct {
	Domain domain.Domain
	Field  fields.Field
	Value  string
	Window time.Duration
	Now    time.Time
}

// Since is the inclusive start of the window.
func (q Query) Since() time.Time {
	return q.Now.Add(-q.Window)
}

//go:generate mockgen -source=aggregates.go -destination=mocks/mocks.go -package=mocks Source

// Source is the aggregate collaborator used by rule evaluation.
type Source interface {
	CountOver(ctx context.Context, q Query) (int64, error)
	SumOver(ctx context.Context, q Query) (decimal.Decimal, error)
}

// Event is one historical transaction.
type Event struct {
	Domain domain.Domain
	At     time.Time
	Tx     fields.Transaction
}
