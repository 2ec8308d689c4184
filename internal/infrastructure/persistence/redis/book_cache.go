package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/circuitbreaker"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// BookCache 图书详情缓存（Cache-Aside）
// 设计说明：
// 1. 包装任意RecordStore，对外仍然是RecordStore
// 2. FindByID先读缓存，未命中再查底层存储并回填，Key设计：book:detail:{id}
// 3. Update/Delete成功后删除缓存，下一次读取时重新加载
// 4. Redis故障只记日志，降级为直接访问底层存储，不把错误返回给调用方
// 5. 所有Redis命令经过熔断器，Redis宕机时不再逐个请求等待超时
type BookCache struct {
	inner   book.RecordStore
	client  *redis.Client
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
	log     *zap.Logger
}

// CacheOptions 缓存参数
type CacheOptions struct {
	TTL             time.Duration
	BreakerFailures uint32        // 连续失败多少次后熔断，0使用默认值
	BreakerTimeout  time.Duration // 熔断持续时间，0使用默认值
}

const breakerName = "redis-book-cache"

// NewBookCache 创建图书缓存
func NewBookCache(inner book.RecordStore, client *redis.Client, opts CacheOptions, log *zap.Logger) *BookCache {
	settings := circuitbreaker.Settings{
		Name:    breakerName,
		Timeout: opts.BreakerTimeout,
		// 未命中是正常结果，不计为失败
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			log.Warn("缓存熔断器状态变化",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.SetCircuitBreakerState(name, int(to))
		},
	}
	if opts.BreakerFailures > 0 {
		settings.ReadyToTrip = circuitbreaker.ConsecutiveFailures(opts.BreakerFailures)
	}

	metrics.SetCircuitBreakerState(breakerName, int(circuitbreaker.StateClosed))

	return &BookCache{
		inner:   inner,
		client:  client,
		ttl:     opts.TTL,
		breaker: circuitbreaker.New(settings),
		log:     log,
	}
}

func detailKey(id uint) string {
	return fmt.Sprintf("book:detail:%d", id)
}

// cachedBook 缓存中的JSON结构
type cachedBook struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Insert 新书不需要预热缓存
func (c *BookCache) Insert(ctx context.Context, title, author string) (*book.Book, error) {
	return c.inner.Insert(ctx, title, author)
}

// FindByID 先查缓存，未命中回源
func (c *BookCache) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	key := detailKey(id)

	var data []byte
	err := c.breaker.Execute(func() error {
		var getErr error
		data, getErr = c.client.Get(ctx, key).Bytes()
		return getErr
	})
	switch {
	case err == nil:
		var cached cachedBook
		if jsonErr := json.Unmarshal(data, &cached); jsonErr == nil {
			metrics.ObserveCacheLookup(metrics.CacheHit)
			return &book.Book{ID: cached.ID, Title: cached.Title, Author: cached.Author}, nil
		}
		// 数据损坏，按未命中处理
		c.log.Warn("图书缓存数据损坏", zap.String("key", key))
		metrics.ObserveCacheLookup(metrics.CacheError)
	case errors.Is(err, redis.Nil):
		metrics.ObserveCacheLookup(metrics.CacheMiss)
	case circuitbreaker.IsRejected(err):
		metrics.ObserveCacheLookup(metrics.CacheBypass)
	default:
		c.log.Warn("读取图书缓存失败，降级查询存储", zap.String("key", key), zap.Error(err))
		metrics.ObserveCacheLookup(metrics.CacheError)
	}

	b, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.fill(ctx, b)
	return b, nil
}

// FindAll 列表不缓存（过滤和分页在上层完成）
func (c *BookCache) FindAll(ctx context.Context) ([]*book.Book, error) {
	return c.inner.FindAll(ctx)
}

// Update 先写存储再删缓存
func (c *BookCache) Update(ctx context.Context, id uint, title, author string) error {
	if err := c.inner.Update(ctx, id, title, author); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// Delete 先删存储再删缓存
func (c *BookCache) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *BookCache) fill(ctx context.Context, b *book.Book) {
	data, err := json.Marshal(cachedBook{ID: b.ID, Title: b.Title, Author: b.Author})
	if err != nil {
		return
	}
	err = c.breaker.Execute(func() error {
		return c.client.Set(ctx, detailKey(b.ID), data, c.ttl).Err()
	})
	if err != nil && !circuitbreaker.IsRejected(err) {
		c.log.Warn("写入图书缓存失败", zap.Uint("id", b.ID), zap.Error(err))
	}
}

func (c *BookCache) invalidate(ctx context.Context, id uint) {
	err := c.breaker.Execute(func() error {
		return c.client.Del(ctx, detailKey(id)).Err()
	})
	if err != nil {
		// 删除失败（包括熔断期间）时旧数据最多保留一个TTL
		c.log.Warn("删除图书缓存失败", zap.Uint("id", id), zap.Error(err))
	}
}
