package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/mq"
)

const testQueue = "bookcatalog.events.test"

func consumed(result string) float64 {
	return testutil.ToFloat64(metrics.MessagesConsumedTotal.WithLabelValues(testQueue, result))
}

func TestEventHandler_Decodes(t *testing.T) {
	metrics.InitMetrics()
	before := consumed(metrics.ResultSuccess)

	var got appbook.BookEvent
	h := NewEventHandler(testQueue, func(_ context.Context, e appbook.BookEvent) error {
		got = e
		return nil
	}, zap.NewNop())

	err := h(context.Background(), mq.Message{
		RoutingKey: "book.created",
		Body:       []byte(`{"type":"book.created","book_id":7,"title":"Dune","author":"Frank Herbert","occurred_at":"2024-01-02T03:04:05Z"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, appbook.EventBookCreated, got.Type)
	assert.Equal(t, uint(7), got.BookID)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, before+1, consumed(metrics.ResultSuccess))
}

func TestEventHandler_DropsMalformed(t *testing.T) {
	metrics.InitMetrics()
	before := consumed(metrics.ResultInvalid)

	called := false
	h := NewEventHandler(testQueue, func(context.Context, appbook.BookEvent) error {
		called = true
		return nil
	}, zap.NewNop())

	assert.NoError(t, h(context.Background(), mq.Message{RoutingKey: "book.created", Body: []byte("{")}))
	assert.False(t, called)
	assert.Equal(t, before+1, consumed(metrics.ResultInvalid))
}

func TestEventHandler_PropagatesError(t *testing.T) {
	metrics.InitMetrics()
	before := consumed(metrics.ResultError)

	h := NewEventHandler(testQueue, func(context.Context, appbook.BookEvent) error {
		return errors.New("downstream unavailable")
	}, zap.NewNop())

	err := h(context.Background(), mq.Message{Body: []byte(`{"type":"book.deleted","book_id":1}`)})
	assert.EqualError(t, err, "downstream unavailable")
	assert.Equal(t, before+1, consumed(metrics.ResultError))
}

func TestLogEvent(t *testing.T) {
	assert.NoError(t, LogEvent(zap.NewNop())(context.Background(), appbook.BookEvent{Type: appbook.EventBookDeleted}))
}
