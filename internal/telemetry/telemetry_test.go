package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetup_EmptyEndpointIsDisabled(t *testing.T) {
	p, err := Setup(context.Background(), Config{})
	require.NoError(t, err)
	assert.False(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), "command")
	span.End()
	assert.False(t, span.SpanContext().IsValid())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestWithExporter_RecordsSpans(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	p := WithExporter(exp, "")
	require.True(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), "command")
	span.SetAttributes(attribute.String("command.line", "focus"))
	span.End()
	require.NoError(t, p.ForceFlush(context.Background()))

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "command", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, attribute.String("command.line", "focus"))

	var service string
	for _, kv := range spans[0].Resource.Attributes() {
		if kv.Key == "service.name" {
			service = kv.Value.AsString()
		}
	}
	assert.Equal(t, "tiletree", service)
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNilProvider(t *testing.T) {
	var p *Provider
	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Tracer())
	assert.NoError(t, p.Shutdown(context.Background()))
}
