package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/annel0/arpg-engine/internal/config"
)

func TestInitTelemetryDisabled(t *testing.T) {
	before := otel.GetTracerProvider()
	shutdown, err := InitTelemetry(context.Background(), config.TelemetryConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, before, otel.GetTracerProvider(), "провайдер не меняется")
}

func TestInitTelemetryEnabled(t *testing.T) {
	before := otel.GetTracerProvider()
	defer otel.SetTracerProvider(before)

	shutdown, err := InitTelemetry(context.Background(), config.TelemetryConfig{
		Enabled:      true,
		ServiceName:  "arpg-test",
		OTLPEndpoint: "127.0.0.1:4318",
	})
	require.NoError(t, err)
	assert.NotEqual(t, before, otel.GetTracerProvider())
	// без спанов shutdown не обращается к коллектору
	assert.NoError(t, shutdown(context.Background()))
}
