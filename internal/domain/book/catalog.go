package book

import (
	"context"
	"sync"
)

// Catalog 图书目录领域服务
// 设计说明:
// 1. 维护两条不变式:书名唯一(不区分大小写)、部分更新只覆盖显式提供的字段
// 2. 存储通过RecordStore注入,Catalog本身与存储无关
// 3. 每个操作整体持有同一把锁,"查重→写入"之间不会插入其他写操作
type Catalog interface {
	// List 作者过滤→统计total→按[skip, skip+limit)截取
	List(ctx context.Context, params ListParams) ([]*Book, int, error)

	// Get 根据ID获取图书
	Get(ctx context.Context, id uint) (*Book, error)

	// Create 创建图书,书名冲突返回ErrTitleDuplicate
	Create(ctx context.Context, title, author string) (*Book, error)

	// Replace 整体更新书名和作者
	Replace(ctx context.Context, id uint, title, author string) (*Book, error)

	// Patch 部分更新,只覆盖PatchInput中提供的字段
	Patch(ctx context.Context, id uint, in PatchInput) (*Book, error)

	// Delete 删除图书
	Delete(ctx context.Context, id uint) error
}

type catalog struct {
	mu    sync.Mutex
	store RecordStore
}

// NewCatalog 创建图书目录
func NewCatalog(store RecordStore) Catalog {
	return &catalog{store: store}
}

// List 分页查询图书列表
func (c *catalog) List(ctx context.Context, params ListParams) ([]*Book, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	params = params.normalize()

	all, err := c.store.FindAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	// 1. 先按作者过滤
	filtered := all
	if params.Author != "" {
		filtered = make([]*Book, 0, len(all))
		for _, b := range all {
			if b.AuthorContains(params.Author) {
				filtered = append(filtered, b)
			}
		}
	}

	// 2. total是分页前的过滤结果数
	total := len(filtered)

	// 3. 分页,越界时返回空列表
	if params.Skip >= total {
		return []*Book{}, total, nil
	}
	end := params.Skip + params.Limit
	if end > total {
		end = total
	}

	return filtered[params.Skip:end], total, nil
}

// Get 根据ID获取图书
func (c *catalog) Get(ctx context.Context, id uint) (*Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.FindByID(ctx, id)
}

// Create 创建图书
func (c *catalog) Create(ctx context.Context, title, author string) (*Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conflict, err := c.titleConflicts(ctx, title, 0)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrTitleDuplicate
	}

	return c.store.Insert(ctx, title, author)
}

// Replace 整体更新
func (c *catalog) Replace(ctx context.Context, id uint, title, author string) (*Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 1. 先确认存在,NotFound优先于其他错误
	b, err := c.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. 查重时排除自身
	conflict, err := c.titleConflicts(ctx, title, id)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrTitleDuplicate
	}

	// 3. 持久化
	if err := c.store.Update(ctx, id, title, author); err != nil {
		return nil, err
	}

	b.Title = title
	b.Author = author
	return b, nil
}

// Patch 部分更新
func (c *catalog) Patch(ctx context.Context, id uint, in PatchInput) (*Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, err := c.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 什么都没提供:原样返回,不写存储
	if in.Empty() {
		return b, nil
	}

	if title, ok := in.Title.Get(); ok {
		conflict, err := c.titleConflicts(ctx, title, id)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, ErrTitleDuplicate
		}
	}

	b.apply(in)

	if err := c.store.Update(ctx, id, b.Title, b.Author); err != nil {
		return nil, err
	}

	return b, nil
}

// Delete 删除图书
func (c *catalog) Delete(ctx context.Context, id uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 先查一次,保证不存在时统一返回ErrBookNotFound
	if _, err := c.store.FindByID(ctx, id); err != nil {
		return err
	}

	return c.store.Delete(ctx, id)
}

// titleConflicts 书名查重,三个写路径共用
// excludeID为0表示不排除任何记录(存储分配的ID从1开始)
func (c *catalog) titleConflicts(ctx context.Context, candidate string, excludeID uint) (bool, error) {
	all, err := c.store.FindAll(ctx)
	if err != nil {
		return false, err
	}

	for _, b := range all {
		if b.ID == excludeID {
			continue
		}
		if SameTitle(b.Title, candidate) {
			return true, nil
		}
	}

	return false, nil
}
