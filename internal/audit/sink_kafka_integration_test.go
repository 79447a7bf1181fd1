//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"fraudgate/internal/audit"
	"fraudgate/internal/platform/config"
	"fraudgate/pkg/testutil/containers"
)

type KafkaSinkSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
}

func TestKafkaSinkSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaSinkSuite))
}

func (s *KafkaSinkSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
}

func (s *KafkaSinkSuite) TestPublishesJSONKeyedBySubject() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	topic := "result-" + uuid.NewString()[:8]
	cfg := config.KafkaConfig{Brokers: []string{s.redpanda.Broker}, ClientID: "fraudgate-test"}

	sink, err := audit.NewKafkaSink(cfg, topic)
	s.Require().NoError(err)
	defer sink.Close()

	sent := []audit.Event{
		{ID: "e1", Domain: "PAYMENT", RiskScore: "HIGH", RuleID: "r1", SubjectHash: audit.HashSubject("fp-1")},
		{ID: "e2", Domain: "PAYMENT", RiskScore: "LOW", SubjectHash: audit.HashSubject("fp-2")},
	}
	s.Require().NoError(sink.Publish(ctx, sent))

	reader, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer reader.Close()

	var got []audit.Event
	for len(got) < len(sent) {
		fetches := reader.PollFetches(ctx)
		s.Require().NoError(ctx.Err(), "timed out waiting for result events")
		fetches.EachRecord(func(r *kgo.Record) {
			var e audit.Event
			s.Require().NoError(json.Unmarshal(r.Value, &e))
			s.Equal(e.SubjectHash, string(r.Key))
			got = append(got, e)
		})
	}
	s.ElementsMatch([]string{"e1", "e2"}, []string{got[0].ID, got[1].ID})
	s.Equal("r1", got[0].RuleID+got[1].RuleID)
}
