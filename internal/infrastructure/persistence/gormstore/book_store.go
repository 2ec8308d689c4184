package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// bookStore 图书存储实现(GORM,MySQL/SQLite通用)
// 设计说明:
// 1. 实现domain/book/repository.go定义的RecordStore接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(记录不存在、唯一索引冲突),转换为领域错误
type bookStore struct {
	db *gorm.DB
}

// NewBookStore 创建图书存储
func NewBookStore(db *gorm.DB) book.RecordStore {
	return &bookStore{db: db}
}

// Insert 插入图书
func (s *bookStore) Insert(ctx context.Context, title, author string) (*book.Book, error) {
	model := &BookModel{
		Title:    title,
		TitleKey: book.TitleKey(title),
		Author:   author,
	}

	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return nil, book.ErrTitleDuplicate
		}
		return nil, dbError(err, "创建图书失败")
	}

	// 回填自增ID
	return toBookEntity(model), nil
}

// FindByID 根据ID查找图书
func (s *bookStore) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := s.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, dbError(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// FindAll 按ID升序(即插入顺序)返回全部图书
func (s *bookStore) FindAll(ctx context.Context) ([]*book.Book, error) {
	var models []BookModel
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, dbError(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// Update 覆盖书名和作者
func (s *bookStore) Update(ctx context.Context, id uint, title, author string) error {
	result := s.db.WithContext(ctx).
		Model(&BookModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":     title,
			"title_key": book.TitleKey(title),
			"author":    author,
		})

	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return book.ErrTitleDuplicate
		}
		return dbError(result.Error, "更新图书失败")
	}

	// MySQL在值未变化时RowsAffected为0,需要再确认记录是否存在
	if result.RowsAffected == 0 {
		if _, err := s.FindByID(ctx, id); err != nil {
			return err
		}
	}

	return nil
}

// Delete 物理删除图书
func (s *bookStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&BookModel{}, id)

	if result.Error != nil {
		return dbError(result.Error, "删除图书失败")
	}

	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	return nil
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:     model.ID,
		Title:  model.Title,
		Author: model.Author,
	}
}
