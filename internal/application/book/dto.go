package book

import (
	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// BookResponse 图书响应DTO
type BookResponse struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// ListBooksResponse 列表响应DTO
// Total是过滤后、分页前的数量
type ListBooksResponse struct {
	Items []BookResponse `json:"items"`
	Total int            `json:"total"`
}

func toBookResponse(b *book.Book) *BookResponse {
	return &BookResponse{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
	}
}
