package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/6z6z6z6z/flag-guard-system/internal/dto"
	"github.com/6z6z6z6z/flag-guard-system/internal/service"
	"github.com/6z6z6z6z/flag-guard-system/pkg/response"
)

// PointsHandler 积分模块 HTTP 处理器
type PointsHandler struct {
	pointsSvc service.PointsService
}

// NewPointsHandler 创建 PointsHandler
func NewPointsHandler(pointsSvc service.PointsService) *PointsHandler {
	return &PointsHandler{pointsSvc: pointsSvc}
}

// History 本人积分历史
// GET /api/v1/points/history
func (h *PointsHandler) History(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PointHistoryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.pointsSvc.History(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// AllHistory 全量积分台账（管理员）
// GET /api/v1/points/all
func (h *PointsHandler) AllHistory(c *gin.Context) {
	var req dto.AllPointHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.pointsSvc.AllHistory(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Statistics 本人积分统计（总分/本月/上月）
// GET /api/v1/points/statistics
func (h *PointsHandler) Statistics(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.pointsSvc.Statistics(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Adjust 手动调整积分（管理员）
// POST /api/v1/points/adjust
func (h *PointsHandler) Adjust(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.pointsSvc.Adjust(c.Request.Context(), operatorID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrZeroPointsChange):
			response.BadRequest(c, 16001, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 12001, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// Reconcile 积分缓存对账（管理员）
// POST /api/v1/points/reconcile
func (h *PointsHandler) Reconcile(c *gin.Context) {
	result, err := h.pointsSvc.Reconcile(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Export 导出积分台账 Excel（管理员）
// GET /api/v1/points/export
func (h *PointsHandler) Export(c *gin.Context) {
	buf, filename, err := h.pointsSvc.ExportLedger(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
