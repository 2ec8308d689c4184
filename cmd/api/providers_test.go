package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/messaging"
)

func TestProvideRecordStore_Memory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.DriverMemory}}

	store, cleanup, err := provideRecordStore(cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	b, err := store.Insert(context.Background(), "Dune", "Frank Herbert")
	require.NoError(t, err)
	assert.Equal(t, uint(1), b.ID)
}

func TestProvideRecordStore_SQLite(t *testing.T) {
	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: gin.TestMode},
		Storage: config.StorageConfig{Driver: config.DriverSQLite},
		Database: config.DatabaseConfig{
			SQLitePath: filepath.Join(t.TempDir(), "books.db"),
		},
	}

	store, cleanup, err := provideRecordStore(cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	created, err := store.Insert(context.Background(), "Dune", "Frank Herbert")
	require.NoError(t, err)

	found, err := store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", found.Title)
}

func TestProvideEventPublisher_Disabled(t *testing.T) {
	publisher, cleanup, err := provideEventPublisher(&config.Config{}, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, messaging.NopPublisher{}, publisher)
}

func TestProvideServers(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:         8081,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 4 * time.Second,
		},
	}

	srv := provideHTTPServer(cfg, gin.New())
	assert.Equal(t, ":8081", srv.Addr)
	assert.Equal(t, 3*time.Second, srv.ReadTimeout)
	assert.Equal(t, 4*time.Second, srv.WriteTimeout)

	assert.Nil(t, provideGRPCServer(cfg, nil, zap.NewNop()))
}
