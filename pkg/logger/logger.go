// Package logger 基于zap构建结构化日志
//
// 配置项与config.LogConfig一一对应：
//   - Level:  debug | info | warn | error
//   - Format: console | json
//   - Output: stdout | stderr | /path/to/file
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 日志选项
type Options struct {
	Level        string
	Format       string
	Output       string
	EnableCaller bool
}

// New 根据选项创建zap.Logger
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(defaultString(opts.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", opts.Level, err)
	}

	encoding := strings.ToLower(defaultString(opts.Format, "console"))
	if encoding != "console" && encoding != "json" {
		return nil, fmt.Errorf("无效的日志格式: %s", opts.Format)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if encoding == "console" {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	output := defaultString(opts.Output, "stdout")

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     !opts.EnableCaller,
		DisableStacktrace: level > zapcore.DebugLevel,
	}

	return cfg.Build()
}

// NewNop 返回不输出任何内容的logger（测试用）
func NewNop() *zap.Logger {
	return zap.NewNop()
}

func defaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
