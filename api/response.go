package api

import (
	"errors"
	"net/http"

	"expenses/logger"
	"expenses/middleware"
	"expenses/repository"
	"expenses/service"
	"expenses/validation"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 错误响应结构
type ErrorResponse struct {
	Error string `json:"error" example:"Title must be at least 3 characters"`
}

// MessageResponse 消息响应结构
type MessageResponse struct {
	Message string `json:"message" example:"Expense deleted successfully"`
}

// Created 201 响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Success 200 响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401 错误响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict 409 错误响应
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalError 500 错误响应，详情只写日志
func InternalError(c *gin.Context, log *logger.Logger, err error) {
	log.Error("request failed",
		logger.FieldRequestID, middleware.GetRequestID(c),
		logger.FieldMethod, c.Request.Method,
		logger.FieldPath, c.Request.URL.Path,
		logger.FieldError, err.Error(),
	)
	Error(c, http.StatusInternalServerError, "Server error")
}

// respondError 把业务错误映射为 HTTP 状态码
func respondError(c *gin.Context, log *logger.Logger, err error, notFound string) {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		BadRequest(c, vErr.Message)
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, notFound)
	case errors.Is(err, repository.ErrEmailTaken):
		Conflict(c, "User already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, "Invalid credentials")
	default:
		InternalError(c, log, err)
	}
}

// bindJSON 解析请求体，格式错误时返回 400；解码细节不回显给客户端
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		BadRequest(c, "Invalid request body")
		return false
	}
	return true
}
