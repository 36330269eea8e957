// Package logger 提供结构化日志记录功能.
package logger

import "context"

// 日志级别常量.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// 输出格式常量.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// contextKey context 键类型.
type contextKey string

// TraceIDKey 用于在 context 中存储 traceId.
const TraceIDKey contextKey = "logger:traceId"

// Field 表示一个日志字段.
type Field struct {
	Key   string
	Value any
}

// Logger 日志记录器接口.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With 返回附带固定字段的 Logger.
	With(fields ...Field) Logger
	// WithContext 返回附带 context 中 trace 信息的 Logger.
	WithContext(ctx context.Context) Logger

	// Sync 刷新缓冲的日志.
	Sync() error
}

// ContextWithTraceID 将 traceId 注入到 context.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// New 创建 logger 实例.
func New(config *Config) (Logger, error) {
	if config == nil {
		config = &Config{}
	}
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newZapLogger(config)
}
