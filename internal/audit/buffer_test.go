package audit

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(id string) Event {
	return Event{ID: id, RiskScore: "LOW"}
}

func ids(events []Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func TestRingBuffer_FIFO(t *testing.T) {
	b := NewRingBuffer(4)
	for i := range 3 {
		assert.False(t, b.Enqueue(event(fmt.Sprint(i))))
	}

	assert.Equal(t, []string{"0", "1"}, ids(b.DequeueBatch(2)))
	assert.Equal(t, []string{"2"}, ids(b.DequeueBatch(10)))
	assert.Nil(t, b.DequeueBatch(1))
	assert.Zero(t, b.Len())
}

func TestRingBuffer_DropsOldestWhenFull(t *testing.T) {
	b := NewRingBuffer(2)
	b.Enqueue(event("a"))
	b.Enqueue(event("b"))

	assert.True(t, b.Enqueue(event("c")))
	assert.Equal(t, int64(1), b.Dropped())
	assert.Equal(t, []string{"b", "c"}, ids(b.DequeueBatch(5)))
}

func TestRingBuffer_WrapsAround(t *testing.T) {
	b := NewRingBuffer(3)
	for round := range 4 {
		b.Enqueue(event(fmt.Sprintf("%d-a", round)))
		b.Enqueue(event(fmt.Sprintf("%d-b", round)))
		require.Equal(t, []string{fmt.Sprintf("%d-a", round), fmt.Sprintf("%d-b", round)}, ids(b.DequeueBatch(2)))
	}
	assert.Zero(t, b.Dropped())
}

func TestRingBuffer_DefaultCapacity(t *testing.T) {
	b := NewRingBuffer(0)
	assert.Len(t, b.events, defaultBufferCapacity)
}

func TestRingBuffer_Concurrent(t *testing.T) {
	b := NewRingBuffer(1000)
	var wg sync.WaitGroup
	for w := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				b.Enqueue(event(fmt.Sprintf("%d-%d", w, i)))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, b.Len())
	assert.Zero(t, b.Dropped())
}

func TestHashSubject(t *testing.T) {
	assert.Empty(t, HashSubject(""))
	h := HashSubject("fp-1")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashSubject("fp-1"))
	assert.NotEqual(t, h, HashSubject("fp-2"))
}
