package book

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// GetBookUseCase 图书详情查询用例
type GetBookUseCase struct {
	catalog book.Catalog
}

// NewGetBookUseCase 创建详情查询用例
func NewGetBookUseCase(catalog book.Catalog) *GetBookUseCase {
	return &GetBookUseCase{
		catalog: catalog,
	}
}

// Execute 执行详情查询,不存在时返回ErrBookNotFound
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (resp *BookResponse, err error) {
	ctx, op := startOperation(ctx, opGet, "GetBook")
	defer func() { op.finish(err) }()

	b, err := uc.catalog.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return toBookResponse(b), nil
}
