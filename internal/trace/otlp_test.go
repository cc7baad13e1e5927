package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewProvider_NoEndpointIsNoop(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	p, err := NewProvider(context.Background())
	require.NoError(t, err)
	assert.False(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), "x")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNilProvider(t *testing.T) {
	var p *Provider
	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Tracer())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewRecordingProvider(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	p := NewRecordingProvider(sr)
	assert.True(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), "panels.drag")
	span.End()

	require.Len(t, sr.Ended(), 1)
	assert.Equal(t, "panels.drag", sr.Ended()[0].Name())
	assert.Equal(t, InstrumentationName, sr.Ended()[0].InstrumentationScope().Name)
	assert.NoError(t, p.Shutdown(context.Background()))
}
