package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

func TestNewClient_Unreachable(t *testing.T) {
	cfg := &config.Config{Redis: config.RedisConfig{
		Host:        "127.0.0.1",
		Port:        1,
		DialTimeout: 50 * time.Millisecond,
	}}

	client, err := NewClient(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, client)
	assert.ErrorIs(t, err, apperrors.ErrRedisError)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
