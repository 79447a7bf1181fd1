package otel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"fraudgate/internal/platform/config"
	"fraudgate/internal/platform/otel"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	shutdown, err := otel.Setup(context.Background(), config.OtelConfig{Enabled: true, ServiceName: "test"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestSetup_NoopWhenDisabled(t *testing.T) {
	shutdown, err := otel.Setup(context.Background(), config.OtelConfig{
		Enabled: false, Endpoint: "http://localhost:4318", ServiceName: "test",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, shutdown(ctx))
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so no actual export happens.
	shutdown, err := otel.Setup(context.Background(), config.OtelConfig{
		Enabled: true, Endpoint: "http://192.0.2.1:4318", ServiceName: "test", SampleRatio: 1,
	})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
