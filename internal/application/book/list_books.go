package book

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 先按作者过滤(子串、不区分大小写),再分页
// 2. Total返回过滤后的总数,方便客户端计算页数
// 3. 列表不走缓存
type ListBooksUseCase struct {
	catalog book.Catalog
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(catalog book.Catalog) *ListBooksUseCase {
	return &ListBooksUseCase{
		catalog: catalog,
	}
}

// ListBooksRequest 列表查询请求DTO
// Limit为0时使用默认值
type ListBooksRequest struct {
	Author string
	Skip   int
	Limit  int
}

// Validate 分页参数范围检查:skip≥0,limit在0..50之间(0表示默认)
func (r ListBooksRequest) Validate() error {
	if r.Skip < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidParams, "skip不能为负数")
	}
	if r.Limit < 0 || r.Limit > book.MaxLimit {
		return apperrors.New(apperrors.ErrCodeInvalidParams, "limit必须在1到50之间")
	}
	return nil
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (resp *ListBooksResponse, err error) {
	ctx, op := startOperation(ctx, opList, "ListBooks")
	defer func() { op.finish(err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	books, total, err := uc.catalog.List(ctx, book.ListParams{
		Author: req.Author,
		Skip:   req.Skip,
		Limit:  req.Limit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]BookResponse, 0, len(books))
	for _, b := range books {
		items = append(items, *toBookResponse(b))
	}

	return &ListBooksResponse{
		Items: items,
		Total: total,
	}, nil
}
