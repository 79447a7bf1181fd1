package verdict

import (
	"context"
	"time"

	"fraudgate/internal/domain"
	"fraudgate/internal/evaluation"
	"fraudgate/internal/evaluation/fields"
)

// Key identifies one repeat-offender track: a rule firing for a subject.
type Key struct {
	Domain  domain.Domain
	RuleID  string
	Subject string
}

func (k Key) String() string {
	return string(k.Domain) + ":" + k.RuleID + ":" + k.Subject
}

// SubjectOf picks who a decision is about. Payments are tracked by device
// fingerprint, peer transfers by identity. Both fall back to the card token.
func SubjectOf(d domain.Domain, tx fields.Transaction) string {
	primary := tx.Fingerprint
	if d == domain.DomainPeerTransfer {
		primary = tx.IdentityID
	}
	if primary != "" {
		return primary
	}
	return tx.CardToken
}

//go:generate mockgen -source=escalation.go -destination=mocks/mocks.go -package=mocks Escalator,RecencyStore

// Escalator decides whether a matched rule is a repeat offence. It sees every
// matched outcome so it can keep its own notion of "consecutive".
type Escalator interface {
	Escalate(ctx context.Context, key Key, outcome evaluation.Outcome, at time.Time) (bool, error)
}

// RecencyStore is a sliding window of occurrences per key.
type RecencyStore interface {
	// Hit records an occurrence at `at` and returns how many earlier
	// occurrences are still inside window.
	Hit(ctx context.Context, key string, at time.Time, window time.Duration) (int, error)
	Reset(ctx context.Context, key string) error
}

// RecencyEscalator escalates a DECLINE when the same rule already declined
// the same subject at least threshold times within window. Any other matched
// outcome for the key breaks the streak.
type RecencyEscalator struct {
	store     RecencyStore
	window    time.Duration
	threshold int
}

func NewRecencyEscalator(store RecencyStore, window time.Duration, threshold int) *RecencyEscalator {
	if threshold < 1 {
		threshold = 1
	}
	return &RecencyEscalator{store: store, window: window, threshold: threshold}
}

func (e *RecencyEscalator) Escalate(ctx context.Context, key Key, outcome evaluation.Outcome, at time.Time) (bool, error) {
	if key.Subject == "" {
		return false, nil
	}
	if outcome != evaluation.OutcomeDecline {
		return false, e.store.Reset(ctx, key.String())
	}
	prior, err := e.store.Hit(ctx, key.String(), at, e.window)
	if err != nil {
		return false, err
	}
	return prior >= e.threshold, nil
}

// NoEscalation never escalates.
type NoEscalation struct{}

func (NoEscalation) Escalate(context.Context, Key, evaluation.Outcome, time.Time) (bool, error) {
	return false, nil
}
