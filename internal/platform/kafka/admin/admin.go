// Package admin wraps the few Kafka admin requests the service needs: topic
// bootstrap for compacted command topics and replay-target lookups for startup
// catch-up.
package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Admin issues admin requests over an existing client.
type Admin struct {
	adm *kadm.Client
}

// New wraps client. The client stays owned by the caller.
func New(client *kgo.Client) *Admin {
	return &Admin{adm: kadm.NewClient(client)}
}

// EnsureCompactedTopics creates the topics with cleanup.policy=compact.
// Topics that already exist are left untouched.
func (a *Admin) EnsureCompactedTopics(ctx context.Context, partitions int32, replication int16, topics ...string) error {
	if len(topics) == 0 {
		return nil
	}
	configs := map[string]*string{
		"cleanup.policy": kadm.StringPtr("compact"),
	}
	resps, err := a.adm.CreateTopics(ctx, partitions, replication, configs, topics...)
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}
	for _, r := range resps.Sorted() {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// ReplayTargets returns, per partition of topic, the offset a full replay must
// reach. Partitions whose log start has caught up with the high watermark
// (everything compacted or deleted) hold nothing to replay and map to 0.
func (a *Admin) ReplayTargets(ctx context.Context, topic string) (map[int32]int64, error) {
	ends, err := a.EndOffsets(ctx, topic)
	if err != nil {
		return nil, err
	}
	listed, err := a.adm.ListStartOffsets(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("list start offsets: %w", err)
	}
	if err := listed.Error(); err != nil {
		return nil, fmt.Errorf("list start offsets for %s: %w", topic, err)
	}
	starts := make(map[int32]int64)
	listed.Each(func(o kadm.ListedOffset) {
		if o.Topic == topic {
			starts[o.Partition] = o.Offset
		}
	})
	return replayTargets(starts, ends), nil
}

func replayTargets(starts, ends map[int32]int64) map[int32]int64 {
	out := make(map[int32]int64, len(ends))
	for p, end := range ends {
		if starts[p] >= end {
			end = 0
		}
		out[p] = end
	}
	return out
}

// EndOffsets returns the high watermark of every partition of topic.
func (a *Admin) EndOffsets(ctx context.Context, topic string) (map[int32]int64, error) {
	listed, err := a.adm.ListEndOffsets(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("list end offsets: %w", err)
	}
	if err := listed.Error(); err != nil {
		return nil, fmt.Errorf("list end offsets for %s: %w", topic, err)
	}
	out := make(map[int32]int64)
	listed.Each(func(o kadm.ListedOffset) {
		if o.Topic == topic {
			out[o.Partition] = o.Offset
		}
	})
	return out, nil
}
