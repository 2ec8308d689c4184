package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// PatchBookUseCase 部分更新用例(PATCH)
// 设计说明:
// 1. 请求中每个字段都是三态:未提供 / 提供了值
// 2. 未提供的字段保持原值,两个都未提供时原样返回
// 3. 只在真的发生写入时发布book.updated
type PatchBookUseCase struct {
	catalog   book.Catalog
	publisher EventPublisher
	log       *zap.Logger
}

// NewPatchBookUseCase 创建部分更新用例
func NewPatchBookUseCase(catalog book.Catalog, publisher EventPublisher, log *zap.Logger) *PatchBookUseCase {
	return &PatchBookUseCase{
		catalog:   catalog,
		publisher: publisher,
		log:       log,
	}
}

// PatchBookRequest 部分更新请求DTO
type PatchBookRequest struct {
	ID     uint
	Title  book.Optional[string]
	Author book.Optional[string]
}

// Execute 执行部分更新
func (uc *PatchBookUseCase) Execute(ctx context.Context, req PatchBookRequest) (resp *BookResponse, err error) {
	ctx, op := startOperation(ctx, opPatch, "PatchBook")
	defer func() { op.finish(err) }()

	if err := validatePatch(req); err != nil {
		return nil, ensureExists(ctx, uc.catalog, req.ID, err)
	}

	in := book.PatchInput{Title: req.Title, Author: req.Author}

	b, err := uc.catalog.Patch(ctx, req.ID, in)
	if err != nil {
		return nil, err
	}

	if !in.Empty() {
		publishEvent(ctx, uc.publisher, uc.log, newBookEvent(EventBookUpdated, b))
	}

	return toBookResponse(b), nil
}

// validatePatch 只校验提供了的字段
func validatePatch(req PatchBookRequest) error {
	if title, ok := req.Title.Get(); ok {
		if err := book.ValidateTitle(title); err != nil {
			return err
		}
	}
	if author, ok := req.Author.Get(); ok {
		if err := book.ValidateAuthor(author); err != nil {
			return err
		}
	}
	return nil
}
