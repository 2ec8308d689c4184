package messaging

import (
	"context"

	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/mq"
)

// MessagePublisher 消息发布的最小接口,*mq.Publisher实现它
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
	Exchange() string
}

// EventPublisher 把图书事件发布到RabbitMQ
// Routing Key就是事件类型(book.created / book.updated / book.deleted)
type EventPublisher struct {
	publisher MessagePublisher
	log       *zap.Logger
}

// NewEventPublisher 创建事件发布器
func NewEventPublisher(publisher MessagePublisher, log *zap.Logger) *EventPublisher {
	return &EventPublisher{publisher: publisher, log: log}
}

// Publish 实现appbook.EventPublisher
func (p *EventPublisher) Publish(ctx context.Context, event appbook.BookEvent) error {
	if err := p.publisher.Publish(ctx, event.Type, event); err != nil {
		return apperrors.ErrMQError.WithDetail(err)
	}

	metrics.ObserveMessagePublished(p.publisher.Exchange(), event.Type)
	p.log.Debug("图书事件已发布", zap.String("type", event.Type), zap.Uint("book_id", event.BookID))
	return nil
}

// NopPublisher 未启用消息队列时使用,丢弃所有事件
type NopPublisher struct{}

// NewNopPublisher 创建空发布器
func NewNopPublisher() NopPublisher {
	return NopPublisher{}
}

// Publish 什么都不做
func (NopPublisher) Publish(context.Context, appbook.BookEvent) error {
	return nil
}

var (
	_ appbook.EventPublisher = (*EventPublisher)(nil)
	_ appbook.EventPublisher = NopPublisher{}
	_ MessagePublisher       = (*mq.Publisher)(nil)
)
