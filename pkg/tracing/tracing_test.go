package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// useRecorder 安装一个把Span记录在内存里的全局Provider
func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})

	return recorder
}

func TestInitTracer(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	// Exporter惰性连接，没有Collector也能初始化
	shutdown, err := InitTracer("test-service", "localhost:4317")
	require.NoError(t, err)

	assert.NoError(t, shutdown(context.Background()))
}

func TestStartSpan_ChildInheritsTraceID(t *testing.T) {
	recorder := useRecorder(t)

	ctx, root := StartSpan(context.Background(), "test", "Root")
	_, child := StartSpan(ctx, "test", "Child")
	child.End()
	root.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "Child", spans[0].Name())
	assert.Equal(t, "Root", spans[1].Name())
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestEndSpan(t *testing.T) {
	recorder := useRecorder(t)

	_, ok := StartSpan(context.Background(), "test", "Ok")
	EndSpan(ok, nil)

	_, failed := StartSpan(context.Background(), "test", "Failed")
	EndSpan(failed, errors.New("书名已存在"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "书名已存在", spans[1].Status().Description)
	require.Len(t, spans[1].Events(), 1) // RecordError产生一个exception事件
}

func TestExtractIDs(t *testing.T) {
	useRecorder(t)

	ctx, span := StartSpan(context.Background(), "test", "Extract")
	defer span.End()

	assert.Len(t, ExtractTraceID(ctx), 32)
	assert.Len(t, ExtractSpanID(ctx), 16)

	// 没有Span的Context返回空字符串
	assert.Empty(t, ExtractTraceID(context.Background()))
	assert.Empty(t, ExtractSpanID(context.Background()))
}
