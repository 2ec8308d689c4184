package dto

import (
	"bytes"
	"encoding/json"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// CreateBookRequest HTTP创建请求
// validator tag说明:
// - required: 必填字段
// - min/max: 字符数范围(按rune计数)
type CreateBookRequest struct {
	Title  string `json:"title" binding:"required,min=1,max=100" example:"Clean Code"`
	Author string `json:"author" binding:"required,min=1,max=100" example:"Robert C. Martin"`
}

// ReplaceBookRequest HTTP整体更新请求(PUT),字段规则与创建相同
type ReplaceBookRequest struct {
	Title  string `json:"title" binding:"required,min=1,max=100" example:"Clean Code"`
	Author string `json:"author" binding:"required,min=1,max=100" example:"Robert C. Martin"`
}

// PatchBookRequest HTTP部分更新请求(PATCH)
// 未出现的字段保持原值;显式null与空字符串一样会被拒绝
type PatchBookRequest struct {
	Title  OptionalString `json:"title" swaggertype:"string" example:"Clean Code"`
	Author OptionalString `json:"author" swaggertype:"string" example:"Robert C. Martin"`
}

// ToUseCase 转换为应用层请求
func (r PatchBookRequest) ToUseCase(id uint) appbook.PatchBookRequest {
	return appbook.PatchBookRequest{
		ID:     id,
		Title:  r.Title.Optional(),
		Author: r.Author.Optional(),
	}
}

// OptionalString JSON三态字符串:未出现 / null / 有值
type OptionalString struct {
	Set   bool // 字段在JSON中出现过(包括null)
	Null  bool
	Value string
}

var jsonNull = []byte("null")

// UnmarshalJSON 字段出现时才会被调用,null也会走到这里
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		o.Null = true
		o.Value = ""
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Optional 转换为领域层的Optional
// null按空字符串处理,由字段校验统一拒绝
func (o OptionalString) Optional() book.Optional[string] {
	if !o.Set {
		return book.None[string]()
	}
	return book.Some(o.Value)
}

// ListBooksQuery HTTP列表查询参数
// 指针用于区分"未传"和"传了0":limit=0是非法值,不传才使用默认值10
type ListBooksQuery struct {
	Author string `form:"author" binding:"omitempty,max=100" example:"martin"`
	Skip   *int   `form:"skip" binding:"omitempty,min=0" example:"0"`
	Limit  *int   `form:"limit" binding:"omitempty,min=1,max=50" example:"10"`
}

// ToUseCase 转换为应用层请求
func (q ListBooksQuery) ToUseCase() appbook.ListBooksRequest {
	req := appbook.ListBooksRequest{Author: q.Author}
	if q.Skip != nil {
		req.Skip = *q.Skip
	}
	if q.Limit != nil {
		req.Limit = *q.Limit
	}
	return req
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID     uint   `json:"id" example:"1"`
	Title  string `json:"title" example:"Clean Code"`
	Author string `json:"author" example:"Robert C. Martin"`
}

// ListBooksResponse HTTP图书列表响应
// Total是过滤后、分页前的数量
type ListBooksResponse struct {
	Items []BookResponse `json:"items"`
	Total int            `json:"total" example:"3"`
}

// NewBookResponse 应用层DTO → HTTP响应
func NewBookResponse(r *appbook.BookResponse) *BookResponse {
	return &BookResponse{
		ID:     r.ID,
		Title:  r.Title,
		Author: r.Author,
	}
}

// NewListBooksResponse 应用层DTO → HTTP响应
func NewListBooksResponse(r *appbook.ListBooksResponse) *ListBooksResponse {
	items := make([]BookResponse, 0, len(r.Items))
	for i := range r.Items {
		items = append(items, *NewBookResponse(&r.Items[i]))
	}
	return &ListBooksResponse{
		Items: items,
		Total: r.Total,
	}
}
