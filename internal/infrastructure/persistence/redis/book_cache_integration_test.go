//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/memory"
)

// 需要本地Redis：go test -tags=integration ./internal/infrastructure/persistence/redis/...
func TestBookCache_HitAndInvalidate(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	client, err := NewClient(cfg, zap.NewNop())
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	cache := NewBookCache(memory.NewBookStore(), client, CacheOptions{TTL: time.Minute}, zap.NewNop())

	created, err := cache.Insert(ctx, "Dune", "Frank Herbert")
	require.NoError(t, err)
	t.Cleanup(func() { client.Del(ctx, detailKey(created.ID)) })

	// 第一次读取回填缓存
	_, err = cache.FindByID(ctx, created.ID)
	require.NoError(t, err)

	exists, err := client.Exists(ctx, detailKey(created.ID)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)

	// 更新后缓存被删除，再次读取拿到新值
	require.NoError(t, cache.Update(ctx, created.ID, "Dune Messiah", "Frank Herbert"))

	exists, err = client.Exists(ctx, detailKey(created.ID)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)

	found, err := cache.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", found.Title)
}
