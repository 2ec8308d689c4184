package rpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

const maxMsgSize = 10 * 1024 * 1024 // 10MB

// NewServer 创建gRPC服务器并注册图书目录服务
// 开发环境开启反射,便于grpcurl调试
func NewServer(cfg *config.Config, catalog BookCatalogServer, log *zap.Logger) *grpc.Server {
	server := grpc.NewServer(
		grpc.MaxRecvMsgSize(maxMsgSize),
		grpc.MaxSendMsgSize(maxMsgSize),
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor(log),
			LoggingInterceptor(log),
		),
	)

	RegisterBookCatalogServer(server, catalog)

	if cfg.GRPC.Reflection {
		reflection.Register(server)
	}

	return server
}

// RecoveryInterceptor panic转换为Internal,防止单个请求拖垮进程
func RecoveryInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("gRPC处理器panic",
					zap.String("method", info.FullMethod),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
				err = status.Error(codes.Internal, apperrors.ErrInternal.Message)
			}
		}()
		return handler(ctx, req)
	}
}

// LoggingInterceptor 记录方法、状态码和耗时
func LoggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("latency", time.Since(start)),
		}

		switch code {
		case codes.OK:
			log.Info("gRPC请求", fields...)
		case codes.Internal, codes.Unknown, codes.Unavailable:
			log.Error("gRPC请求", append(fields, zap.Error(err))...)
		default:
			log.Warn("gRPC请求", append(fields, zap.Error(err))...)
		}
		return resp, err
	}
}
