package commandlog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"fraudgate/internal/commandlog/metrics"
	"fraudgate/internal/platform/config"
	"fraudgate/internal/platform/kafka/admin"
	"fraudgate/internal/platform/kafka/consumer"
)

// Runner tails every command stream into the registry and tracks startup
// catch-up.
type Runner struct {
	cfg       config.KafkaConfig
	streams   []Stream
	logger    *slog.Logger
	adminCl   *kgo.Client
	admin     *admin.Admin
	consumers []*consumer.Consumer

	mu         sync.Mutex
	endOffsets map[string]map[int32]int64 // by topic, captured at start
	ready      atomic.Bool
}

// NewRunner builds one consumer per stream, each applying to applier.
func NewRunner(cfg config.KafkaConfig, applier Applier, logger *slog.Logger, m *metrics.Metrics) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	adminCl, err := kgo.NewClient(kgo.SeedBrokers(cfg.Brokers...), kgo.ClientID(cfg.ClientID+"-admin"))
	if err != nil {
		return nil, fmt.Errorf("create kafka admin client: %w", err)
	}
	r := &Runner{
		cfg:     cfg,
		streams: Streams(cfg),
		logger:  logger,
		adminCl: adminCl,
		admin:   admin.New(adminCl),
	}
	for _, s := range r.streams {
		c, err := consumer.New(
			consumer.Config{Brokers: cfg.Brokers, ClientID: cfg.ClientID, Topic: s.Topic},
			NewHandler(s, applier, logger, m),
			consumer.WithLogger(logger),
		)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("create consumer for %s: %w", s.Topic, err)
		}
		r.consumers = append(r.consumers, c)
	}
	return r, nil
}

// Run optionally creates the topics, captures end offsets for readiness, and
// runs every consumer until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	if r.cfg.CreateTopics {
		if err := r.admin.EnsureCompactedTopics(ctx, r.cfg.Partitions, r.cfg.Replication, Topics(r.streams)...); err != nil {
			return err
		}
	}

	ends := make(map[string]map[int32]int64, len(r.streams))
	for _, s := range r.streams {
		offsets, err := r.admin.ReplayTargets(ctx, s.Topic)
		if err != nil {
			return err
		}
		ends[s.Topic] = offsets
	}
	r.mu.Lock()
	r.endOffsets = ends
	r.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range r.consumers {
		g.Go(func() error {
			return c.Run(gctx)
		})
	}
	return g.Wait()
}

// Ready reports whether every stream has applied everything that was in the
// log when Run started. Once ready, it stays ready.
func (r *Runner) Ready() bool {
	if r.ready.Load() {
		return true
	}
	r.mu.Lock()
	ends := r.endOffsets
	r.mu.Unlock()
	if ends == nil {
		return false
	}
	for _, c := range r.consumers {
		if !c.CaughtUp(ends[c.Topic()]) {
			return false
		}
	}
	r.ready.Store(true)
	r.logger.Info("command log caught up", "streams", len(r.consumers))
	return true
}

// Close releases every client.
func (r *Runner) Close() {
	for _, c := range r.consumers {
		c.Close()
	}
	r.adminCl.Close()
}
