package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fraudgate/internal/audit/metrics"
	"fraudgate/pkg/platform/circuit"
)

const (
	defaultBatchSize     = 200
	defaultFlushInterval = 500 * time.Millisecond
	drainTimeout         = 5 * time.Second
)

//go:generate mockgen -source=publisher.go -destination=mocks/mocks.go -package=mocks Sink

// Sink delivers a batch of events.
type Sink interface {
	Publish(ctx context.Context, events []Event) error
}

// Publisher buffers events from the request path and ships them to the sink
// in batches from a single background loop.
type Publisher struct {
	sink          Sink
	buffer        *RingBuffer
	sampler       *Sampler
	breaker       *circuit.Breaker
	batchSize     int
	flushInterval time.Duration
	wake          chan struct{}

	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Publisher.
type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithBreaker stops calling the sink while it keeps failing. Events keep
// accumulating in the buffer meanwhile.
func WithBreaker(b *circuit.Breaker) Option {
	return func(p *Publisher) {
		p.breaker = b
	}
}

func WithSampler(s *Sampler) Option {
	return func(p *Publisher) {
		if s != nil {
			p.sampler = s
		}
	}
}

func WithBufferSize(n int) Option {
	return func(p *Publisher) {
		p.buffer = NewRingBuffer(n)
	}
}

func WithBatchSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

func WithFlushInterval(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.flushInterval = d
		}
	}
}

func NewPublisher(sink Sink, opts ...Option) (*Publisher, error) {
	if sink == nil {
		return nil, errors.New("audit sink is required")
	}
	p := &Publisher{
		sink:          sink,
		buffer:        NewRingBuffer(defaultBufferCapacity),
		sampler:       NewSampler(1),
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		wake:          make(chan struct{}, 1),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Emit queues e without blocking. A full batch wakes the loop early.
func (p *Publisher) Emit(_ context.Context, e Event) {
	if !p.sampler.Keep(e.RiskScore) {
		p.metrics.AddEvents("sampled_out", 1)
		return
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if p.buffer.Enqueue(e) {
		p.metrics.AddEvents("dropped", 1)
	}
	if p.buffer.Len() >= p.batchSize {
		select {
		case p.wake <- struct{}{}:
		default:
		}
	}
}

// Run flushes on every tick or wake-up until ctx is done, then drains what is
// left within a short grace period.
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
			p.Flush(drainCtx)
			cancel()
			return nil
		case <-ticker.C:
			p.Flush(ctx)
		case <-p.wake:
			p.Flush(ctx)
		}
	}
}

// Flush publishes buffered events batch by batch. A failed batch is dropped
// and flushing stops until the next round.
func (p *Publisher) Flush(ctx context.Context) {
	for p.buffer.Len() > 0 {
		if p.breaker != nil && !p.breaker.Allow() {
			return
		}
		batch := p.buffer.DequeueBatch(p.batchSize)
		start := time.Now()
		err := p.sink.Publish(ctx, batch)
		p.metrics.ObservePublishLatency(time.Since(start))
		if err != nil {
			p.metrics.AddEvents("failed", len(batch))
			p.recordFailure(ctx, err, len(batch))
			return
		}
		p.metrics.AddEvents("published", len(batch))
		if p.breaker != nil {
			if _, change := p.breaker.RecordSuccess(); change.Closed {
				p.logger.InfoContext(ctx, "audit sink recovered", "breaker", p.breaker.Name())
			}
		}
	}
}

func (p *Publisher) recordFailure(ctx context.Context, err error, lost int) {
	p.logger.WarnContext(ctx, "failed to publish inspection results",
		"events", lost,
		"error", err,
	)
	if p.breaker == nil {
		return
	}
	if _, change := p.breaker.RecordFailure(); change.Opened {
		p.logger.ErrorContext(ctx, "audit sink circuit opened", "breaker", p.breaker.Name())
	}
}

// Pending is the number of buffered events.
func (p *Publisher) Pending() int {
	return p.buffer.Len()
}
