package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

// App 组装完成的应用:HTTP服务器,以及可选的gRPC服务器
type App struct {
	cfg        *config.Config
	log        *zap.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
}

func newApp(cfg *config.Config, log *zap.Logger, httpServer *http.Server, grpcServer *grpc.Server) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: httpServer,
		grpcServer: grpcServer,
	}
}

// Run 启动服务并阻塞,直到收到SIGINT/SIGTERM或某个服务器异常退出
// 两个端口都监听成功后才开始服务,任何一个失败都不会留下已启动的服务器
func (a *App) Run() error {
	httpLis, grpcLis, err := a.listen()
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)

	go func() {
		a.log.Info("HTTP服务启动", zap.String("addr", httpLis.Addr().String()))
		if err := a.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP服务异常退出: %w", err)
		}
	}()

	if grpcLis != nil {
		go func() {
			a.log.Info("gRPC服务启动", zap.String("addr", grpcLis.Addr().String()), zap.Bool("reflection", a.cfg.GRPC.Reflection))
			if err := a.grpcServer.Serve(grpcLis); err != nil {
				errCh <- fmt.Errorf("gRPC服务异常退出: %w", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		a.log.Info("收到退出信号,开始优雅关闭", zap.String("signal", sig.String()))
	case runErr = <-errCh:
		a.log.Error("服务异常,开始关闭", zap.Error(runErr))
	}

	return errors.Join(runErr, a.shutdown())
}

// listen 先占好所有端口,gRPC关闭时grpcLis为nil
func (a *App) listen() (httpLis, grpcLis net.Listener, err error) {
	if a.grpcServer != nil {
		grpcLis, err = net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.GRPC.Port))
		if err != nil {
			return nil, nil, fmt.Errorf("监听gRPC端口失败: %w", err)
		}
	}

	addr := a.httpServer.Addr
	if addr == "" {
		addr = ":http"
	}
	httpLis, err = net.Listen("tcp", addr)
	if err != nil {
		if grpcLis != nil {
			_ = grpcLis.Close()
		}
		return nil, nil, fmt.Errorf("监听HTTP端口失败: %w", err)
	}

	return httpLis, grpcLis, nil
}

// shutdown 等待进行中的请求完成,最长shutdown_timeout
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.grpcServer != nil {
		stopped := make(chan struct{})
		go func() {
			a.grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			a.grpcServer.Stop()
		}
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP服务关闭失败: %w", err)
	}

	a.log.Info("服务已停止")
	return nil
}
