package api

import (
	"errors"

	"expenses/logger"
	"expenses/middleware"
	"expenses/repository"
	"expenses/service"
	"expenses/validation"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	svc *service.AuthService
	log *logger.Logger
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(svc *service.AuthService, log *logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{svc: svc, log: log.WithComponent(logger.ComponentAuth)}
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户并返回访问令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body validation.RegistrationPayload true "注册信息"
// @Success 201 {object} service.AuthResult "注册成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 409 {object} ErrorResponse "邮箱已注册"
// @Failure 500 {object} ErrorResponse "服务器错误"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req validation.RegistrationPayload
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "User not found")
		return
	}
	Created(c, res)
}

// Login 用户登录
// @Summary 用户登录
// @Description 使用邮箱和密码登录，返回访问令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body validation.LoginPayload true "登录信息"
// @Success 200 {object} service.AuthResult "登录成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 401 {object} ErrorResponse "邮箱或密码错误"
// @Failure 429 {object} ErrorResponse "尝试过于频繁"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req validation.LoginPayload
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "User not found")
		return
	}
	Success(c, res)
}

// Me 获取当前用户
// @Summary 获取当前用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User "获取成功"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.svc.Me(c.Request.Context(), middleware.GetCurrentUserID(c))
	if errors.Is(err, repository.ErrNotFound) {
		// 令牌有效但用户已不存在
		Unauthorized(c, "Token is not valid")
		return
	}
	if err != nil {
		InternalError(c, h.log, err)
		return
	}
	Success(c, user)
}
