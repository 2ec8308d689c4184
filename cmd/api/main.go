package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// @title						Book Catalog API
// @version					1.0
// @description				图书目录服务:图书的增删改查,书名不区分大小写唯一
// @host						localhost:8080
// @BasePath					/
// @schemes					http
// @produce					json
// @consumes					json

// main 主程序入口
// 依赖由Wire组装(见wire.go),这里只负责可选的链路追踪和进程生命周期
func main() {
	app, cleanup, err := InitializeApp()
	if err != nil {
		log.Fatalf("初始化应用失败: %v", err)
	}

	// runApp返回时cleanup已经执行,之后才能退出进程
	if err := runApp(app, cleanup, tracing.InitTracer); err != nil {
		app.log.Error("服务退出", zap.Error(err))
		os.Exit(1)
	}
}

type tracerInit func(serviceName, endpoint string) (func(context.Context) error, error)

// runApp 运行到服务停止,无论成功失败都会执行cleanup(数据库、Redis、MQ连接)
func runApp(app *App, cleanup func(), initTracer tracerInit) error {
	defer cleanup()

	if app.cfg.Tracing.Enabled {
		shutdown, err := initTracer(app.cfg.Tracing.ServiceName, app.cfg.Tracing.Endpoint)
		if err != nil {
			return fmt.Errorf("初始化链路追踪失败: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				app.log.Warn("关闭链路追踪失败", zap.Error(err))
			}
		}()
		app.log.Info("链路追踪已启用", zap.String("endpoint", app.cfg.Tracing.Endpoint))
	}

	app.log.Info("图书目录服务启动",
		zap.Int("port", app.cfg.Server.Port),
		zap.String("mode", app.cfg.Server.Mode),
		zap.String("storage", app.cfg.Storage.Driver),
		zap.Bool("redis", app.cfg.Redis.Enabled),
		zap.Bool("mq", app.cfg.MQ.Enabled),
		zap.Bool("grpc", app.cfg.GRPC.Enabled),
	)

	return app.Run()
}
