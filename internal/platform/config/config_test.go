package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8022", cfg.Server.Addr)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "template", cfg.Kafka.TopicRule)
	assert.Equal(t, "group_p2p_reference", cfg.Kafka.TopicP2PGroupReference)
	assert.Equal(t, 1500*time.Millisecond, cfg.Inspector.RequestTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Inspector.EscalationWindow)
	assert.Empty(t, cfg.Redis.URL)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("INSPECTOR_ESCALATION_WINDOW", "30s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Second, cfg.Inspector.EscalationWindow)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestFromEnv_RejectsCallTimeoutAboveRequestTimeout(t *testing.T) {
	t.Setenv("INSPECTOR_REQUEST_TIMEOUT", "100ms")
	t.Setenv("INSPECTOR_CALL_TIMEOUT", "200ms")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INSPECTOR_CALL_TIMEOUT")
}

func TestFromEnv_RejectsSampleRatioOutOfRange(t *testing.T) {
	t.Setenv("OTEL_SAMPLE_RATIO", "1.5")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OTEL_SAMPLE_RATIO")
}

func TestFromEnv_Audit(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.True(t, cfg.Audit.Enabled)
		assert.Equal(t, "result", cfg.Audit.Topic)
		assert.Equal(t, 200, cfg.Audit.BatchSize)
	})

	t.Run("batch larger than buffer is rejected", func(t *testing.T) {
		t.Setenv("AUDIT_BUFFER_SIZE", "10")
		t.Setenv("AUDIT_BATCH_SIZE", "20")
		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AUDIT_BATCH_SIZE")
	})

	t.Run("limits are ignored when disabled", func(t *testing.T) {
		t.Setenv("AUDIT_ENABLED", "false")
		t.Setenv("AUDIT_LOW_SAMPLE_RATE", "3")
		_, err := FromEnv()
		require.NoError(t, err)
	})
}
