package consumer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

func newTestConsumer(h Handler) *Consumer {
	return &Consumer{
		topic:           "template",
		handler:         h,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		retryBackoff:    time.Millisecond,
		maxRetryBackoff: 2 * time.Millisecond,
		pollTimeout:     10 * time.Millisecond,
		idleAfter:       3,
		applied:         make(map[int32]int64),
	}
}

func TestNew_Validation(t *testing.T) {
	h := HandlerFunc(func(context.Context, *Message) error { return nil })

	_, err := New(Config{Topic: "t"}, h)
	assert.ErrorContains(t, err, "brokers")

	_, err = New(Config{Brokers: []string{"localhost:9092"}}, h)
	assert.ErrorContains(t, err, "topic")

	_, err = New(Config{Brokers: []string{"localhost:9092"}, Topic: "t"}, nil)
	assert.ErrorContains(t, err, "handler")
}

func TestDeliver_RetriesUntilHandlerSucceeds(t *testing.T) {
	calls := 0
	c := newTestConsumer(HandlerFunc(func(_ context.Context, msg *Message) error {
		calls++
		assert.Equal(t, []byte("rule-1"), msg.Key)
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}))

	err := c.deliver(context.Background(), &kgo.Record{Topic: "template", Partition: 0, Offset: 7, Key: []byte("rule-1")})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, map[int32]int64{0: 8}, c.Applied())
}

func TestDeliver_StopsOnCancel(t *testing.T) {
	c := newTestConsumer(HandlerFunc(func(context.Context, *Message) error {
		return errors.New("always failing")
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.deliver(ctx, &kgo.Record{Partition: 0, Offset: 0})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, c.Applied())
}

func TestCaughtUp(t *testing.T) {
	c := newTestConsumer(nil)

	assert.True(t, c.CaughtUp(map[int32]int64{0: 0, 1: 0}), "empty partitions are caught up")
	assert.False(t, c.CaughtUp(map[int32]int64{0: 3}))

	c.markApplied(0, 1)
	assert.False(t, c.CaughtUp(map[int32]int64{0: 3}))

	c.markApplied(0, 2)
	assert.True(t, c.CaughtUp(map[int32]int64{0: 3}))
}

func TestCaughtUp_TailWithoutRecords(t *testing.T) {
	// Offset 4 is a transaction marker: the handler only ever sees 0..3.
	ends := map[int32]int64{0: 5}

	t.Run("idle after reading the partition", func(t *testing.T) {
		c := newTestConsumer(nil)
		c.markApplied(0, 3)
		c.markIdle()
		c.markIdle()
		assert.False(t, c.CaughtUp(ends))
		c.markIdle()
		assert.True(t, c.CaughtUp(ends))
	})

	t.Run("a delivered record resets the idle run", func(t *testing.T) {
		c := newTestConsumer(nil)
		for range 3 {
			c.markIdle()
		}
		c.markApplied(0, 2)
		assert.False(t, c.CaughtUp(ends))
	})

	t.Run("partition that never yields a record needs a longer idle run", func(t *testing.T) {
		c := newTestConsumer(nil)
		for range 3 {
			c.markIdle()
		}
		assert.False(t, c.CaughtUp(ends))
		for range 3*unseenIdleFactor - 3 {
			c.markIdle()
		}
		assert.True(t, c.CaughtUp(ends))
	})
}

func TestWithIdleDetection(t *testing.T) {
	c := newTestConsumer(nil)
	WithIdleDetection(time.Second, 5)(c)
	assert.Equal(t, time.Second, c.pollTimeout)
	assert.Equal(t, 5, c.idleAfter)

	WithIdleDetection(0, 0)(c)
	assert.Equal(t, time.Second, c.pollTimeout)
	assert.Equal(t, 5, c.idleAfter)
}
