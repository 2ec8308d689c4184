package book

import (
	"context"
)

// RecordStore 图书存储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(内存、MySQL/SQLite、Redis缓存装饰)
// 2. Catalog只依赖这个接口,不关心数据存在哪里
// 3. 记录不存在时返回ErrBookNotFound;其他失败是不透明的存储错误,原样向上传递
type RecordStore interface {
	// Insert 插入新图书,由存储分配新的ID
	Insert(ctx context.Context, title, author string) (*Book, error)

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindAll 返回全部图书,顺序稳定(按插入顺序)
	FindAll(ctx context.Context) ([]*Book, error)

	// Update 覆盖书名和作者
	Update(ctx context.Context, id uint, title, author string) error

	// Delete 永久删除
	Delete(ctx context.Context, id uint) error
}

// ListParams 列表查询参数
type ListParams struct {
	Author string // 作者过滤(不区分大小写的子串匹配),空表示不过滤
	Skip   int    // 跳过条数
	Limit  int    // 返回条数上限
}

const (
	// DefaultLimit 默认每页条数
	DefaultLimit = 10
	// MaxLimit 每页条数上限
	MaxLimit = 50
)

// normalize 分页参数归一化,分页本身从不报错
func (p ListParams) normalize() ListParams {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}
