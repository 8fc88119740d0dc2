package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/6z6z6z6z/flag-guard-system/internal/dto"
	"github.com/6z6z6z6z/flag-guard-system/internal/service"
	"github.com/6z6z6z6z/flag-guard-system/pkg/response"
)

// FlagHandler 升降旗模块 HTTP 处理器
type FlagHandler struct {
	flagSvc service.FlagService
}

// NewFlagHandler 创建 FlagHandler
func NewFlagHandler(flagSvc service.FlagService) *FlagHandler {
	return &FlagHandler{flagSvc: flagSvc}
}

// CreateRecord 提交升降旗记录
// POST /api/v1/flags
func (h *FlagHandler) CreateRecord(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateFlagRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.flagSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFlagDate) {
			response.BadRequest(c, 15003, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// MyRecords 本人升降旗记录
// GET /api/v1/flags/my
func (h *FlagHandler) MyRecords(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.FlagRecordListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.flagSvc.MyRecords(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// AllRecords 全部升降旗记录（管理员审核列表）
// GET /api/v1/flags
func (h *FlagHandler) AllRecords(c *gin.Context) {
	var req dto.FlagRecordListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.flagSvc.AllRecords(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Approve 审核通过并发分（管理员）
// POST /api/v1/flags/:id/approve
func (h *FlagHandler) Approve(c *gin.Context) {
	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.flagSvc.Approve(c.Request.Context(), c.Param("id"), reviewerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFlagRecordNotFound):
			response.NotFound(c, 15001, err.Error())
		case errors.Is(err, service.ErrAlreadyReviewed):
			response.Conflict(c, 15002, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Reject 审核拒绝（管理员）
// POST /api/v1/flags/:id/reject
func (h *FlagHandler) Reject(c *gin.Context) {
	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.flagSvc.Reject(c.Request.Context(), c.Param("id"), reviewerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFlagRecordNotFound):
			response.NotFound(c, 15001, err.Error())
		case errors.Is(err, service.ErrAlreadyReviewed):
			response.Conflict(c, 15002, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}
