package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/messaging"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/gormstore"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcatalog/internal/interface/rpc"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/mq"
)

// ========================================
// Custom Providers
// ========================================
// 构造函数参数需要从Config中提取,或者要按配置选择实现时,写成Provider交给Wire

// provideLogger 按log配置创建zap.Logger
func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	log, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return nil, nil, err
	}
	return log, func() { _ = log.Sync() }, nil
}

// provideRecordStore 按storage.driver选择存储
//
//	memory       → 进程内存储(重启丢失)
//	mysql/sqlite → GORM
//
// redis.enabled时在外层套一层详情缓存
func provideRecordStore(cfg *config.Config, log *zap.Logger) (book.RecordStore, func(), error) {
	store, closeDB, err := openStore(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Redis.Enabled {
		return store, closeDB, nil
	}

	client, err := redis.NewClient(cfg, log)
	if err != nil {
		closeDB()
		return nil, nil, err
	}

	cleanup := func() {
		_ = client.Close()
		closeDB()
	}
	cache := redis.NewBookCache(store, client, redis.CacheOptions{
		TTL:             cfg.Redis.DetailTTL,
		BreakerFailures: cfg.Redis.BreakerFailures,
		BreakerTimeout:  cfg.Redis.BreakerTimeout,
	}, log)
	return cache, cleanup, nil
}

func openStore(cfg *config.Config, log *zap.Logger) (book.RecordStore, func(), error) {
	if cfg.Storage.Driver == config.DriverMemory {
		log.Info("使用内存存储")
		return memory.NewBookStore(), func() {}, nil
	}

	db, err := gormstore.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("获取底层数据库连接失败: %w", err)
	}
	return gormstore.NewBookStore(db), func() { _ = sqlDB.Close() }, nil
}

// provideEventPublisher mq.enabled时发布到RabbitMQ,否则丢弃事件
func provideEventPublisher(cfg *config.Config, log *zap.Logger) (appbook.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return messaging.NewNopPublisher(), func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
	if err != nil {
		return nil, nil, err
	}
	return messaging.NewEventPublisher(publisher, log), func() { _ = publisher.Close() }, nil
}

// provideHTTPServer 包装Gin引擎,超时取自server配置
func provideHTTPServer(cfg *config.Config, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// provideGRPCServer grpc.enabled为false时返回nil
func provideGRPCServer(cfg *config.Config, catalog *rpc.CatalogServer, log *zap.Logger) *grpc.Server {
	if !cfg.GRPC.Enabled {
		return nil
	}
	return rpc.NewServer(cfg, catalog, log)
}
