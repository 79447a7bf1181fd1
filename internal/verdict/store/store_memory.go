// Package store holds the recency stores behind repeat-offender escalation.
package store

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultCapacity bounds the number of tracked keys.
const DefaultCapacity = 100_000

// MemoryStore is a sliding-window recency store kept in process. It tracks at
// most capacity keys, dropping the least recently touched one, and sweeps keys
// whose newest occurrence has left the window. Not shared between instances;
// use RedisStore for that.
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front is most recently touched
}

type track struct {
	key    string
	window time.Duration
	hits   []time.Time
}

func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

func (s *MemoryStore) Hit(_ context.Context, key string, at time.Time, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(at)

	var t *track
	if el, ok := s.entries[key]; ok {
		s.order.MoveToFront(el)
		t = el.Value.(*track)
	} else {
		t = &track{key: key}
		s.entries[key] = s.order.PushFront(t)
		for s.order.Len() > s.capacity {
			s.remove(s.order.Back())
		}
	}
	t.window = window
	t.cleanup(at)
	prior := len(t.hits)
	t.hits = append(t.hits, at)
	return prior, nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.entries[key]; ok {
		s.remove(el)
	}
	return nil
}

// Len reports the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// sweep drops expired keys from the cold end. Must be called with s.mu held.
func (s *MemoryStore) sweep(now time.Time) {
	for el := s.order.Back(); el != nil; el = s.order.Back() {
		t := el.Value.(*track)
		if len(t.hits) > 0 && t.hits[len(t.hits)-1].After(now.Add(-t.window)) {
			return
		}
		s.remove(el)
	}
}

func (s *MemoryStore) remove(el *list.Element) {
	s.order.Remove(el)
	delete(s.entries, el.Value.(*track).key)
}

// cleanup removes occurrences at or before the window start.
func (t *track) cleanup(now time.Time) {
	cutoff := now.Add(-t.window)
	i := 0
	for ; i < len(t.hits); i++ {
		if t.hits[i].After(cutoff) {
			break
		}
	}
	t.hits = t.hits[i:]
}
