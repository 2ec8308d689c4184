package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/pkg/response"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// RequestIDHeader 请求ID的Header名称
const RequestIDHeader = "X-Request-ID"

const tracerName = "http-server"

// RequestLogger 请求日志中间件
// 设计说明：
// 1. 沿用客户端传入的X-Request-ID，没有时用UUID生成，并写回响应Header
// 2. 为每个请求创建根Span，后续用例的Span都挂在它下面
// 3. 带request_id、trace_id的logger注入gin.Context，response.Error会用它记录内部错误
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		route := routeOf(c)
		ctx, span := tracing.StartSpan(c.Request.Context(), tracerName, c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)

		fields := []zap.Field{zap.String("request_id", requestID)}
		if traceID := tracing.ExtractTraceID(ctx); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		reqLog := log.With(fields...)
		c.Set(response.LoggerKey, reqLog)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
		}
		span.End()

		entry := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case status >= 500:
			reqLog.Error("http request", entry...)
		case status >= 400:
			reqLog.Warn("http request", entry...)
		default:
			reqLog.Info("http request", entry...)
		}
	}
}

// routeOf 返回匹配到的路由模板（/books/:id），未匹配时返回固定值，避免指标标签基数失控
func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}
