package messaging

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/mq"
)

// BookEventHandler 图书事件的处理逻辑,消费者把每条事件交给它
type BookEventHandler func(ctx context.Context, event appbook.BookEvent) error

// NewEventHandler 把mq消息解码为BookEvent后交给next
// 无法解码的消息直接确认丢弃,避免反复重新入队
func NewEventHandler(queue string, next BookEventHandler, log *zap.Logger) mq.Handler {
	return func(ctx context.Context, msg mq.Message) error {
		var event appbook.BookEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			log.Warn("丢弃无法解析的图书事件",
				zap.String("routing_key", msg.RoutingKey),
				zap.ByteString("body", msg.Body),
				zap.Error(err),
			)
			metrics.ObserveMessageConsumed(queue, metrics.ResultInvalid)
			return nil
		}

		if err := next(ctx, event); err != nil {
			metrics.ObserveMessageConsumed(queue, metrics.ResultError)
			return err
		}

		metrics.ObserveMessageConsumed(queue, metrics.ResultSuccess)
		return nil
	}
}

// LogEvent 只记录日志的事件处理器(cmd/events使用)
func LogEvent(log *zap.Logger) BookEventHandler {
	return func(_ context.Context, event appbook.BookEvent) error {
		log.Info("收到图书事件",
			zap.String("type", event.Type),
			zap.Uint("book_id", event.BookID),
			zap.String("title", event.Title),
			zap.String("author", event.Author),
			zap.Time("occurred_at", event.OccurredAt),
		)
		return nil
	}
}
