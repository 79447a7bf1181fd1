package aggregates

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// MemorySource keeps events in memory. It backs local runs without an
// analytics database and tests.
type MemorySource struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemory(events ...Event) *MemorySource {
	return &MemorySource{events: append([]Event(nil), events...)}
}

// Record appends an event.
func (m *MemorySource) Record(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func (m *MemorySource) CountOver(_ context.Context, q Query) (int64, error) {
	var n int64
	if err := m.each(q, func(Event) { n++ }); err != nil {
		return 0, err
	}
	return n, nil
}

func (m *MemorySource) SumOver(_ context.Context, q Query) (decimal.Decimal, error) {
	sum := decimal.Zero
	if err := m.each(q, func(e Event) { sum = sum.Add(e.Tx.Amount) }); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// each applies the same field rules as the Postgres source.
func (m *MemorySource) each(q Query, fn func(Event)) error {
	if _, err := column(q); err != nil {
		return err
	}
	if q.Value == "" {
		return nil
	}
	since := q.Since()
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.events {
		if e.Domain != q.Domain || e.At.Before(since) || e.At.After(q.Now) {
			continue
		}
		if e.Tx.Value(q.Field) == q.Value {
			fn(e)
		}
	}
	return nil
}
