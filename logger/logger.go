package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// 通用字段
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldUserID    = "user_id"
	FieldError     = "error"
	FieldOperation = "operation"
)

// 组件名
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentExpense   = "expense"
	ComponentAuth      = "auth"
	ComponentStorage   = "storage"
	ComponentRateLimit = "rate_limit"
	ComponentWeb       = "web"
	ComponentEmail     = "email"
)

// Logger 带组件名的结构化日志
type Logger struct {
	*slog.Logger
	base      *slog.Logger
	component string
}

// Config 日志配置
type Config struct {
	Level     string
	Format    string
	Component string
	Output    io.Writer
}

// New 创建日志实例
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	component := cfg.Component
	if component == "" {
		component = ComponentApp
	}
	base := slog.New(handler)
	return &Logger{
		Logger:    base.With(FieldComponent, component),
		base:      base,
		component: component,
	}
}

// Nop 丢弃所有输出，测试用
func Nop() *Logger {
	return New(Config{Output: io.Discard})
}

// ParseLevel 解析日志级别，未知值按 info 处理
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// WithComponent 派生指定组件的日志
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.base.With(FieldComponent, component),
		base:      l.base,
		component: component,
	}
}

// With 附加字段
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		base:      l.base.With(args...),
		component: l.component,
	}
}

// Component 返回组件名
func (l *Logger) Component() string {
	return l.component
}

// SetDefault 设置为 slog 默认日志
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
