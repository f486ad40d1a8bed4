package middleware

import (
	"log/slog"
	"time"

	"expenses/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID 请求 ID 响应头
	HeaderRequestID = "X-Request-ID"
	// ContextRequestID gin 上下文中请求 ID 的键
	ContextRequestID = "requestID"
)

// RequestID 为每个请求分配 ID，沿用客户端传入的值
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(ContextRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// GetRequestID 当前请求 ID
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextRequestID)
}

// RequestLogger 访问日志，4xx 记 warn，5xx 记 error
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent(logger.ComponentHTTP)

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		args := []any{
			logger.FieldRequestID, GetRequestID(c),
			logger.FieldMethod, c.Request.Method,
			logger.FieldPath, c.Request.URL.Path,
			logger.FieldStatus, status,
			logger.FieldDuration, time.Since(start).Milliseconds(),
			logger.FieldClientIP, c.ClientIP(),
		}
		if uid := GetCurrentUserID(c); uid != "" {
			args = append(args, logger.FieldUserID, uid)
		}
		// 请求解析失败的细节只进日志
		if errs := c.Errors.ByType(gin.ErrorTypeBind); len(errs) > 0 {
			args = append(args, logger.FieldError, errs.String())
		}
		log.Log(c.Request.Context(), level, "HTTP request completed", args...)
	}
}
