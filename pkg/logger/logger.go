// Package logger 基于log/slog的结构化日志
//
// 设计说明：
// 1. 进程启动时按配置创建一次，通过SetDefault设为全局默认
// 2. 请求级字段（request_id、trace_id）放在context中，WithContext统一提取
// 3. JSON格式用于生产环境日志采集，text格式用于本地调试
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// ContextKey 上下文键类型
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	TraceIDKey   ContextKey = "trace_id"
	UserIDKey    ContextKey = "user_id"
)

// Config 日志配置
type Config struct {
	Level     string // debug | info | warn | error
	Format    string // json | text
	Output    string // stdout | stderr | 文件路径
	Component string // 组件名（api、worker）
}

// Logger 结构化日志器
type Logger struct {
	*slog.Logger
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(New(Config{Level: "info", Format: "text", Component: "library"}))
}

// New 创建日志器
func New(cfg Config) *Logger {
	return newWithWriter(cfg, openOutput(cfg.Output))
}

func newWithWriter(cfg Config, w io.Writer) *Logger {
	level := ParseLevel(cfg.Level)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)
	if cfg.Component != "" {
		l = l.With(slog.String("component", cfg.Component))
	}
	return &Logger{Logger: l}
}

// ParseLevel 解析日志级别，未知值按info处理
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openOutput(output string) io.Writer {
	switch output {
	case "", "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return os.Stdout
		}
		return f
	}
}

// SetDefault 设置全局日志器，同时接管slog.Default
func SetDefault(l *Logger) {
	defaultLogger.Store(l)
	slog.SetDefault(l.Logger)
}

// L 返回全局日志器
func L() *Logger {
	return defaultLogger.Load()
}

// WithContext 附加context中的请求级字段
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	var attrs []any
	if v, ok := ctx.Value(RequestIDKey).(string); ok && v != "" {
		attrs = append(attrs, slog.String(string(RequestIDKey), v))
	}
	if v, ok := ctx.Value(TraceIDKey).(string); ok && v != "" {
		attrs = append(attrs, slog.String(string(TraceIDKey), v))
	}
	if v, ok := ctx.Value(UserIDKey).(uint); ok && v != 0 {
		attrs = append(attrs, slog.Uint64(string(UserIDKey), uint64(v)))
	}
	if len(attrs) == 0 {
		return l
	}
	return &Logger{Logger: l.Logger.With(attrs...)}
}

// WithError 附加错误字段
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return &Logger{Logger: l.Logger.With(slog.String("error", err.Error()))}
}

// Ctx 全局日志器 + context字段的简写
func Ctx(ctx context.Context) *Logger {
	return L().WithContext(ctx)
}

// ContextWithRequestID 把请求ID写入context
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// ContextWithUserID 把当前用户ID写入context
func ContextWithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
