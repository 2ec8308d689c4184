package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// CreateBookUseCase 创建图书用例
// 设计说明:
// 1. 应用层负责用例编排:校验 → 领域服务 → 事件
// 2. 书名查重由领域服务负责
// 3. 事件发布失败不影响创建结果
type CreateBookUseCase struct {
	catalog   book.Catalog
	publisher EventPublisher
	log       *zap.Logger
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(catalog book.Catalog, publisher EventPublisher, log *zap.Logger) *CreateBookUseCase {
	return &CreateBookUseCase{
		catalog:   catalog,
		publisher: publisher,
		log:       log,
	}
}

// CreateBookRequest 创建请求DTO
type CreateBookRequest struct {
	Title  string
	Author string
}

// Execute 执行创建
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (resp *BookResponse, err error) {
	ctx, op := startOperation(ctx, opCreate, "CreateBook")
	defer func() { op.finish(err) }()

	if err := book.ValidateTitle(req.Title); err != nil {
		return nil, err
	}
	if err := book.ValidateAuthor(req.Author); err != nil {
		return nil, err
	}

	b, err := uc.catalog.Create(ctx, req.Title, req.Author)
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, uc.publisher, uc.log, newBookEvent(EventBookCreated, b))

	return toBookResponse(b), nil
}
