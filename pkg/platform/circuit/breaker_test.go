package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestBreaker(opts ...Option) (*Breaker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return New("geo", append([]Option{WithClock(clock.Now)}, opts...)...), clock
}

func TestBreaker_Lifecycle(t *testing.T) {
	b, clock := newTestBreaker(WithFailureThreshold(2), WithSuccessThreshold(2), WithCooldown(10*time.Second))
	require.Equal(t, "geo", b.Name())
	require.Equal(t, StateClosed, b.State())

	fallback, change := b.RecordFailure()
	assert.False(t, fallback)
	assert.False(t, change.Opened)
	assert.True(t, b.Allow())

	fallback, change = b.RecordFailure()
	assert.True(t, fallback)
	assert.True(t, change.Opened)
	assert.Equal(t, "open", b.State().String())
	assert.False(t, b.Allow(), "open breaker rejects during cooldown")

	clock.Advance(10 * time.Second)
	assert.True(t, b.Allow(), "probe allowed once cooldown elapsed")

	healthy, change := b.RecordSuccess()
	assert.False(t, healthy)
	assert.False(t, change.Closed)
	assert.True(t, b.IsOpen())

	healthy, change = b.RecordSuccess()
	assert.True(t, healthy)
	assert.True(t, change.Closed)
	assert.Equal(t, "closed", b.State().String())
}

func TestBreaker_FailedProbeRestartsCooldown(t *testing.T) {
	b, clock := newTestBreaker(WithFailureThreshold(1), WithCooldown(5*time.Second))
	b.RecordFailure()

	clock.Advance(5 * time.Second)
	require.True(t, b.Allow())
	fallback, change := b.RecordFailure()
	assert.True(t, fallback)
	assert.False(t, change.Opened, "already open")

	clock.Advance(4 * time.Second)
	assert.False(t, b.Allow())
}

func TestBreaker_CountersReset(t *testing.T) {
	t.Run("success clears consecutive failures", func(t *testing.T) {
		b, _ := newTestBreaker(WithFailureThreshold(2))
		b.RecordFailure()
		b.RecordSuccess()
		b.RecordFailure()
		assert.False(t, b.IsOpen())
	})

	t.Run("failure while open clears consecutive successes", func(t *testing.T) {
		b, _ := newTestBreaker(WithFailureThreshold(1), WithSuccessThreshold(2))
		b.RecordFailure()
		b.RecordSuccess()
		b.RecordFailure()
		b.RecordSuccess()
		assert.True(t, b.IsOpen())
	})

	t.Run("reset closes", func(t *testing.T) {
		b, _ := newTestBreaker(WithFailureThreshold(1))
		b.RecordFailure()
		b.Reset()
		assert.False(t, b.IsOpen())
		assert.True(t, b.Allow())
	})
}

func TestBreaker_IgnoresNonPositiveOptions(t *testing.T) {
	b := New("x", WithFailureThreshold(0), WithSuccessThreshold(-1), WithCooldown(0), WithClock(nil))
	assert.Equal(t, 5, b.failureThreshold)
	assert.Equal(t, 3, b.successThreshold)
	assert.Equal(t, 10*time.Second, b.cooldown)
	assert.NotNil(t, b.now)
}
