package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan_RecordsAndPropagatesTraceID(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	Install(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, parent := StartSpan(context.Background(), "payment", "ConfirmPayment")
	traceID := ExtractTraceID(ctx)
	require.NotEmpty(t, traceID)

	childCtx, child := StartSpan(ctx, "payment", "gateway.confirm")
	assert.Equal(t, traceID, ExtractTraceID(childCtx), "子Span应继承TraceID")
	child.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "gateway.confirm", spans[0].Name())
	assert.Equal(t, "ConfirmPayment", spans[1].Name())
}

func TestExtractTraceID_NoSpan(t *testing.T) {
	assert.Equal(t, "", ExtractTraceID(context.Background()))
}
