// Package consumer reads compacted Kafka topics from the beginning and hands
// each record to a Handler in partition order.
//
// There is no consumer group. Every process materializes its own in-memory
// view, so it always replays the full log on startup and keeps tailing it.
// A record is acknowledged (the in-memory position advances) only after its
// handler returns nil; handler errors are retried with backoff.
//
// The last offset below a partition's high watermark is not always a record:
// transaction control markers and compacted-away entries never reach the
// handler. Polls are therefore bounded, and a run of empty polls marks the
// consumer idle, which counts as caught up for partitions it has read from.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is the transport-neutral view of a Kafka record.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte // nil for tombstones
	Timestamp time.Time
}

// Handler processes one message. Returning an error causes redelivery of the
// same message; handlers that want to drop a bad message return nil.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg *Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg *Message) error {
	return f(ctx, msg)
}

// Config configures a Consumer.
type Config struct {
	Brokers  []string
	ClientID string
	Topic    string
}

// Consumer tails a single topic.
type Consumer struct {
	client  *kgo.Client
	topic   string
	handler Handler
	logger  *slog.Logger

	retryBackoff    time.Duration
	maxRetryBackoff time.Duration
	pollTimeout     time.Duration
	idleAfter       int

	mu        sync.Mutex
	applied   map[int32]int64 // next offset to apply, per partition
	idlePolls int             // consecutive empty polls
}

// unseenIdleFactor scales idleAfter for partitions that never yielded a
// record, such as a log holding only control markers.
const unseenIdleFactor = 4

// Option configures a Consumer.
type Option func(*Consumer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetryBackoff sets the initial and maximum delay between handler retries.
func WithRetryBackoff(initial, max time.Duration) Option {
	return func(c *Consumer) {
		if initial > 0 {
			c.retryBackoff = initial
		}
		if max >= c.retryBackoff {
			c.maxRetryBackoff = max
		}
	}
}

// WithIdleDetection bounds each poll by pollTimeout and treats that many
// consecutive empty polls as idle.
func WithIdleDetection(pollTimeout time.Duration, polls int) Option {
	return func(c *Consumer) {
		if pollTimeout > 0 {
			c.pollTimeout = pollTimeout
		}
		if polls > 0 {
			c.idleAfter = polls
		}
	}
}

// New creates a consumer that starts at the earliest offset of every
// partition of cfg.Topic.
func New(cfg Config, handler Handler, opts ...Option) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("topic is required")
	}
	if handler == nil {
		return nil, errors.New("handler is required")
	}

	kopts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	}
	if cfg.ClientID != "" {
		kopts = append(kopts, kgo.ClientID(cfg.ClientID))
	}
	client, err := kgo.NewClient(kopts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	c := &Consumer{
		client:          client,
		topic:           cfg.Topic,
		handler:         handler,
		logger:          slog.Default(),
		retryBackoff:    100 * time.Millisecond,
		maxRetryBackoff: 5 * time.Second,
		pollTimeout:     500 * time.Millisecond,
		idleAfter:       3,
		applied:         make(map[int32]int64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Topic returns the consumed topic.
func (c *Consumer) Topic() string {
	return c.topic
}

// Run polls until ctx is cancelled or the client is closed. It returns nil on
// a clean shutdown.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("kafka consumer started", "topic", c.topic)
	for {
		pctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
		fetches := c.client.PollFetches(pctx)
		timedOut := errors.Is(pctx.Err(), context.DeadlineExceeded)
		cancel()
		if fetches.IsClientClosed() || ctx.Err() != nil {
			c.logger.Info("kafka consumer stopped", "topic", c.topic)
			return nil
		}
		if timedOut && fetches.NumRecords() == 0 {
			c.markIdle()
			continue
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			if errors.Is(err, context.DeadlineExceeded) {
				return
			}
			c.logger.Warn("kafka fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		var stopErr error
		fetches.EachRecord(func(rec *kgo.Record) {
			if stopErr != nil {
				return
			}
			stopErr = c.deliver(ctx, rec)
		})
		if stopErr != nil {
			// Only context cancellation stops delivery.
			c.logger.Info("kafka consumer stopped", "topic", c.topic)
			return nil
		}
	}
}

// deliver hands a record to the handler until it succeeds or ctx ends.
func (c *Consumer) deliver(ctx context.Context, rec *kgo.Record) error {
	msg := &Message{
		Topic:     rec.Topic,
		Partition: rec.Partition,
		Offset:    rec.Offset,
		Key:       rec.Key,
		Value:     rec.Value,
		Timestamp: rec.Timestamp,
	}
	backoff := c.retryBackoff
	for attempt := 1; ; attempt++ {
		err := c.handler.Handle(ctx, msg)
		if err == nil {
			c.markApplied(rec.Partition, rec.Offset)
			return nil
		}
		c.logger.Error("message handling failed, retrying",
			"topic", rec.Topic,
			"partition", rec.Partition,
			"offset", rec.Offset,
			"attempt", attempt,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, c.maxRetryBackoff)
	}
}

func (c *Consumer) markApplied(partition int32, offset int64) {
	c.mu.Lock()
	c.applied[partition] = offset + 1
	c.idlePolls = 0
	c.mu.Unlock()
}

func (c *Consumer) markIdle() {
	c.mu.Lock()
	c.idlePolls++
	c.mu.Unlock()
}

// Applied returns the next offset to apply for each partition that has seen
// at least one record.
func (c *Consumer) Applied() map[int32]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[int32]int64, len(c.applied))
	for p, o := range c.applied {
		out[p] = o
	}
	return out
}

// CaughtUp reports whether every partition has applied up to the given end
// offsets. Empty partitions (end offset 0) count as caught up. A partition
// still short of its end counts once the consumer has gone idle after reading
// from it, or after a longer idle run if it never yielded a record.
func (c *Consumer) CaughtUp(endOffsets map[int32]int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for partition, end := range endOffsets {
		if end <= 0 {
			continue
		}
		next, seen := c.applied[partition]
		switch {
		case next >= end:
		case seen && c.idlePolls >= c.idleAfter:
		case c.idlePolls >= c.idleAfter*unseenIdleFactor:
		default:
			return false
		}
	}
	return true
}

// Close releases the client. Run returns once the in-flight poll observes the close.
func (c *Consumer) Close() {
	c.client.Close()
}
