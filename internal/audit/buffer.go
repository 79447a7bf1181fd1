package audit

import "sync"

const defaultBufferCapacity = 10_000

// RingBuffer holds events waiting for the sink. It never blocks: when full,
// the oldest event is overwritten and counted as dropped.
type RingBuffer struct {
	mu      sync.Mutex
	events  []Event
	head    int // next write
	tail    int // next read
	count   int
	dropped int64
}

func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = defaultBufferCapacity
	}
	return &RingBuffer{events: make([]Event, capacity)}
}

// Enqueue adds e and reports whether an older event was dropped for it.
func (b *RingBuffer) Enqueue(e Event) (dropped bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == len(b.events) {
		b.tail = (b.tail + 1) % len(b.events)
		b.count--
		b.dropped++
		dropped = true
	}
	b.events[b.head] = e
	b.head = (b.head + 1) % len(b.events)
	b.count++
	return dropped
}

// DequeueBatch removes up to n events, oldest first.
func (b *RingBuffer) DequeueBatch(n int) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 || n <= 0 {
		return nil
	}
	n = min(n, b.count)
	out := make([]Event, n)
	for i := range out {
		out[i] = b.events[b.tail]
		b.events[b.tail] = Event{}
		b.tail = (b.tail + 1) % len(b.events)
	}
	b.count -= n
	return out
}

func (b *RingBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Dropped is the number of events overwritten since creation.
func (b *RingBuffer) Dropped() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
