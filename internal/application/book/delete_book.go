package book

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// DeleteBookUseCase 删除图书用例
type DeleteBookUseCase struct {
	catalog   book.Catalog
	publisher EventPublisher
	log       *zap.Logger
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(catalog book.Catalog, publisher EventPublisher, log *zap.Logger) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		catalog:   catalog,
		publisher: publisher,
		log:       log,
	}
}

// Execute 执行删除,删除后的ID不会被复用
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) (err error) {
	ctx, op := startOperation(ctx, opDelete, "DeleteBook")
	defer func() { op.finish(err) }()

	if err := uc.catalog.Delete(ctx, id); err != nil {
		return err
	}

	publishEvent(ctx, uc.publisher, uc.log, BookEvent{
		Type:       EventBookDeleted,
		BookID:     id,
		OccurredAt: time.Now().UTC(),
	})

	return nil
}
