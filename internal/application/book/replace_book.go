package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// ReplaceBookUseCase 整体更新用例(PUT)
type ReplaceBookUseCase struct {
	catalog   book.Catalog
	publisher EventPublisher
	log       *zap.Logger
}

// NewReplaceBookUseCase 创建整体更新用例
func NewReplaceBookUseCase(catalog book.Catalog, publisher EventPublisher, log *zap.Logger) *ReplaceBookUseCase {
	return &ReplaceBookUseCase{
		catalog:   catalog,
		publisher: publisher,
		log:       log,
	}
}

// ReplaceBookRequest 整体更新请求DTO,两个字段都必填
type ReplaceBookRequest struct {
	ID     uint
	Title  string
	Author string
}

// Execute 执行整体更新
func (uc *ReplaceBookUseCase) Execute(ctx context.Context, req ReplaceBookRequest) (resp *BookResponse, err error) {
	ctx, op := startOperation(ctx, opReplace, "ReplaceBook")
	defer func() { op.finish(err) }()

	if err := validateFields(req.Title, req.Author); err != nil {
		return nil, ensureExists(ctx, uc.catalog, req.ID, err)
	}

	b, err := uc.catalog.Replace(ctx, req.ID, req.Title, req.Author)
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, uc.publisher, uc.log, newBookEvent(EventBookUpdated, b))

	return toBookResponse(b), nil
}

func validateFields(title, author string) error {
	if err := book.ValidateTitle(title); err != nil {
		return err
	}
	return book.ValidateAuthor(author)
}
