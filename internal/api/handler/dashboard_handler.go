package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/6z6z6z6z/flag-guard-system/internal/service"
	"github.com/6z6z6z6z/flag-guard-system/pkg/response"
)

// DashboardHandler 仪表盘模块 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Stats 全局统计（管理员）
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	result, err := h.dashboardSvc.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// PendingItems 管理端待办（管理员）
// GET /api/v1/dashboard/pending
func (h *DashboardHandler) PendingItems(c *gin.Context) {
	result, err := h.dashboardSvc.PendingItems(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
