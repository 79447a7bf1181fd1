package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudgate/internal/platform/config"
)

func TestOptions(t *testing.T) {
	t.Run("config overrides URL defaults", func(t *testing.T) {
		opts, err := options(config.RedisConfig{
			URL:         "redis://cache:6380/2",
			PoolSize:    7,
			ReadTimeout: 150 * time.Millisecond,
		})
		require.NoError(t, err)
		assert.Equal(t, "cache:6380", opts.Addr)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, 7, opts.PoolSize)
		assert.Equal(t, 150*time.Millisecond, opts.ReadTimeout)
		assert.Equal(t, "fraudgate", opts.ClientName)
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := options(config.RedisConfig{URL: "http://nope"})
		assert.ErrorContains(t, err, "parse redis URL")
	})
}

func TestNew_DisabledWithoutURL(t *testing.T) {
	c, err := New(context.Background(), config.RedisConfig{})
	assert.NoError(t, err)
	assert.Nil(t, c)
}
