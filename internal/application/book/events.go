package book

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// 图书事件类型,同时作为消息的Routing Key
const (
	EventBookCreated = "book.created"
	EventBookUpdated = "book.updated"
	EventBookDeleted = "book.deleted"
)

// BookEvent 图书变更事件
type BookEvent struct {
	Type       string    `json:"type"`
	BookID     uint      `json:"book_id"`
	Title      string    `json:"title,omitempty"`
	Author     string    `json:"author,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher 事件发布接口(由infrastructure/messaging实现)
type EventPublisher interface {
	Publish(ctx context.Context, event BookEvent) error
}

func newBookEvent(eventType string, b *book.Book) BookEvent {
	return BookEvent{
		Type:       eventType,
		BookID:     b.ID,
		Title:      b.Title,
		Author:     b.Author,
		OccurredAt: time.Now().UTC(),
	}
}

// publishEvent 写操作成功后发布事件,失败只记日志,不影响请求结果
func publishEvent(ctx context.Context, publisher EventPublisher, log *zap.Logger, event BookEvent) {
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn("发布图书事件失败",
			zap.String("type", event.Type),
			zap.Uint("book_id", event.BookID),
			zap.Error(err),
		)
	}
}
