package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestInitRequiresEndpoint(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{ServiceName: "budget-tracker-api"})
	assert.Error(t, err)
	assert.Nil(t, shutdown)
}

func TestInitInstallsTracerProvider(t *testing.T) {
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	// The gRPC client connects lazily, so no collector is needed here.
	shutdown, err := Init(context.Background(), Config{
		ServiceName:  "budget-tracker-api",
		Environment:  "test",
		OTLPEndpoint: "localhost:4317",
	})
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	require.True(t, ok)

	_, span := otel.Tracer("budget-tracker.test").Start(context.Background(), "unit")
	assert.True(t, span.IsRecording())
	assert.True(t, span.SpanContext().IsValid())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, shutdown(ctx))
	// Idempotent.
	assert.NoError(t, shutdown(ctx))
}

func TestEndpointOptions(t *testing.T) {
	assert.Len(t, endpointOptions("collector:4317"), 2)
	assert.Len(t, endpointOptions("http://collector:4317"), 1)
}
