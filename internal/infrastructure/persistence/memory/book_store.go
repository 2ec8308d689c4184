package memory

import (
	"context"
	"sync"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// bookStore 图书存储实现(内存)
// 设计说明:
// 1. 实例由组装方创建并持有,没有包级全局状态
// 2. order记录插入顺序,FindAll按插入顺序返回
// 3. nextID只增不减,删除后的ID不会被再次分配
// 4. 读写都返回副本,调用方修改不会影响存储内容
type bookStore struct {
	mu     sync.RWMutex
	nextID uint
	order  []uint
	books  map[uint]*book.Book
}

// NewBookStore 创建内存图书存储
func NewBookStore() book.RecordStore {
	return &bookStore{
		nextID: 1,
		books:  make(map[uint]*book.Book),
	}
}

// Insert 插入图书
func (s *bookStore) Insert(ctx context.Context, title, author string) (*book.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := &book.Book{
		ID:     s.nextID,
		Title:  title,
		Author: author,
	}
	s.nextID++

	s.books[b.ID] = b
	s.order = append(s.order, b.ID)

	return b.Clone(), nil
}

// FindByID 根据ID查找图书
func (s *bookStore) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return b.Clone(), nil
}

// FindAll 按插入顺序返回全部图书
func (s *bookStore) FindAll(ctx context.Context) ([]*book.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]*book.Book, 0, len(s.order))
	for _, id := range s.order {
		books = append(books, s.books[id].Clone())
	}
	return books, nil
}

// Update 覆盖书名和作者
func (s *bookStore) Update(ctx context.Context, id uint, title, author string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	b.Title = title
	b.Author = author
	return nil
}

// Delete 删除图书
func (s *bookStore) Delete(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		return book.ErrBookNotFound
	}
	delete(s.books, id)

	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
