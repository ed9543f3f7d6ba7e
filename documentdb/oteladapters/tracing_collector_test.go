package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/dconnelly/cosmosdb-go/documentdb/oteladapters"
)

func Test_TracingCollector_StartSpan_PutsSpanIntoContext(t *testing.T) {
	// setup
	exporter, collector := newTracingCollector()

	// act
	ctx, span := collector.StartSpan(context.Background(), "documentdb.materialize.query", map[string]string{
		"operation":     "query",
		"resource_type": "Document",
	})
	collector.FinishSpan(span, "success", map[string]string{"resource_count": "2"})

	// assert
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid(), "context should carry the started span")

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "documentdb.materialize.query", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assertSpanAttribute(t, spans[0].Attributes, "operation", "query")
	assertSpanAttribute(t, spans[0].Attributes, "resource_type", "Document")
	assertSpanAttribute(t, spans[0].Attributes, "resource_count", "2")
}

func Test_TracingCollector_FinishSpan_MapsStatus(t *testing.T) {
	tests := []struct {
		status              string
		expectedCode        codes.Code
		expectedDescription string
	}{
		{status: "success", expectedCode: codes.Ok},
		{status: "ok", expectedCode: codes.Ok},
		{status: "error", expectedCode: codes.Error, expectedDescription: "Materialization failed"},
		{status: "failed", expectedCode: codes.Error, expectedDescription: "Materialization failed"},
		{status: "canceled", expectedCode: codes.Error, expectedDescription: "Operation cancelled"},
		{status: "timeout", expectedCode: codes.Error, expectedDescription: "Operation timed out"},
		{status: "partial", expectedCode: codes.Unset},
	}

	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			exporter, collector := newTracingCollector()

			_, span := collector.StartSpan(context.Background(), "span", nil)
			collector.FinishSpan(span, tc.status, nil)

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expectedCode, spans[0].Status.Code)
			assert.Equal(t, tc.expectedDescription, spans[0].Status.Description)
		})
	}
}

func Test_TracingCollector_FinishSpan_KeepsUnmappedStatusAsAttribute(t *testing.T) {
	exporter, collector := newTracingCollector()

	_, span := collector.StartSpan(context.Background(), "span", nil)
	collector.FinishSpan(span, "partial", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assertSpanAttribute(t, spans[0].Attributes, "status", "partial")
}

func Test_OTelSpanContext_AddAttribute(t *testing.T) {
	exporter, collector := newTracingCollector()

	_, span := collector.StartSpan(context.Background(), "span", nil)
	span.AddAttribute("error_type", "malformed_json_body")
	span.SetStatus("error")
	collector.FinishSpan(span, "error", nil)

	otelSpan, ok := span.(*oteladapters.OTelSpanContext)
	require.True(t, ok)
	assert.NotNil(t, otelSpan.Span())

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assertSpanAttribute(t, spans[0].Attributes, "error_type", "malformed_json_body")
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}

func Test_TracingCollector_StartSpan_NestsUnderParent(t *testing.T) {
	exporter, collector := newTracingCollector()

	parentCtx, parent := collector.StartSpan(context.Background(), "parent", nil)
	_, child := collector.StartSpan(parentCtx, "child", nil)
	collector.FinishSpan(child, "success", nil)
	collector.FinishSpan(parent, "success", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "child", spans[0].Name)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
}

func newTracingCollector() (*tracetest.InMemoryExporter, *oteladapters.TracingCollector) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return exporter, oteladapters.NewTracingCollector(provider.Tracer("documentdb-test"))
}

func assertSpanAttribute(t *testing.T, attrs []attribute.KeyValue, key, expected string) {
	t.Helper()

	for _, attr := range attrs {
		if string(attr.Key) == key {
			assert.Equal(t, expected, attr.Value.AsString())
			return
		}
	}

	assert.Failf(t, "attribute not found", "span has no attribute %q", key)
}
