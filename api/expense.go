package api

import (
	"expenses/logger"
	"expenses/middleware"
	"expenses/models"
	"expenses/service"
	"expenses/validation"

	"github.com/gin-gonic/gin"
)

const expenseNotFound = "Expense not found"

// ExpenseHandler 消费记录处理器
type ExpenseHandler struct {
	svc *service.ExpenseService
	log *logger.Logger
}

// NewExpenseHandler 创建消费记录处理器
func NewExpenseHandler(svc *service.ExpenseService, log *logger.Logger) *ExpenseHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ExpenseHandler{svc: svc, log: log.WithComponent(logger.ComponentExpense)}
}

// Create 创建消费记录
// @Summary 创建消费记录
// @Description 为当前用户创建一条消费记录
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body validation.ExpensePayload true "消费记录信息"
// @Success 201 {object} models.Expense "创建成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req validation.ExpensePayload
	if !bindJSON(c, &req) {
		return
	}

	expense, err := h.svc.Create(c.Request.Context(), middleware.GetCurrentUserID(c), req)
	if err != nil {
		respondError(c, h.log, err, expenseNotFound)
		return
	}
	Created(c, expense)
}

// List 获取消费记录列表
// @Summary 获取消费记录列表
// @Description 获取当前用户的消费记录，按日期倒序，支持类别与日期区间筛选和分页
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param category query string false "类别筛选"
// @Param startDate query string false "开始日期 (2024-01-01)"
// @Param endDate query string false "结束日期 (2024-01-31)，包含当天"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量，最大 100" default(50)
// @Success 200 {object} service.ExpensePage "获取成功"
// @Failure 400 {object} ErrorResponse "查询参数错误"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	var q validation.ExpenseQueryPayload
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		BadRequest(c, "Invalid query")
		return
	}

	page, err := h.svc.List(c.Request.Context(), middleware.GetCurrentUserID(c), q)
	if err != nil {
		respondError(c, h.log, err, expenseNotFound)
		return
	}
	Success(c, page)
}

// Get 获取单条消费记录
// @Summary 获取消费记录详情
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path string true "消费记录ID"
// @Success 200 {object} models.Expense "获取成功"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "记录不存在"
// @Router /api/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	expense, err := h.svc.Get(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err, expenseNotFound)
		return
	}
	Success(c, expense)
}

// Update 更新消费记录
// @Summary 更新消费记录
// @Description 整条替换标题、金额、类别和日期，只能修改自己的记录
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "消费记录ID"
// @Param request body validation.ExpensePayload true "消费记录信息"
// @Success 200 {object} models.Expense "更新成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "记录不存在"
// @Router /api/expenses/{id} [patch]
func (h *ExpenseHandler) Update(c *gin.Context) {
	var req validation.ExpensePayload
	if !bindJSON(c, &req) {
		return
	}

	expense, err := h.svc.Update(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, h.log, err, expenseNotFound)
		return
	}
	Success(c, expense)
}

// Delete 删除消费记录
// @Summary 删除消费记录
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path string true "消费记录ID"
// @Success 200 {object} MessageResponse "删除成功"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "记录不存在"
// @Router /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id")); err != nil {
		respondError(c, h.log, err, expenseNotFound)
		return
	}
	Success(c, MessageResponse{Message: "Expense deleted successfully"})
}

// Stats 类别统计
// @Summary 获取消费统计
// @Description 按类别汇总当前用户的消费总额与笔数，按总额倒序
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ExpenseStats "获取成功"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/expenses/stats [get]
func (h *ExpenseHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err, expenseNotFound)
		return
	}
	Success(c, stats)
}

// GetCategories 获取消费类别
// @Summary 获取消费类别列表
// @Tags 消费记录
// @Produce json
// @Success 200 {array} string "类别列表"
// @Router /api/categories [get]
func (h *ExpenseHandler) GetCategories(c *gin.Context) {
	Success(c, models.GetCategories())
}
