package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string `json:"status" example:"OK"`
	Timestamp string `json:"timestamp" example:"2024-01-15T08:00:00Z"`
}

// Health 健康检查，ping 为 nil 时只报告进程存活
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse "服务正常"
// @Failure 503 {object} HealthResponse "存储不可用"
// @Router /api/health [get]
func Health(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "OK", http.StatusOK
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				status, code = "DEGRADED", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}
