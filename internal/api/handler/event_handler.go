package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/6z6z6z6z/flag-guard-system/internal/dto"
	"github.com/6z6z6z6z/flag-guard-system/internal/service"
	"github.com/6z6z6z6z/flag-guard-system/pkg/response"
)

// EventHandler 活动模块 HTTP 处理器
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// CreateEvent 创建活动（管理员）
// POST /api/v1/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.eventSvc.Create(c.Request.Context(), operatorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTimeFormat):
			response.BadRequest(c, 13002, err.Error())
		case errors.Is(err, service.ErrLinkedTrainingMissing):
			response.BadRequest(c, 14005, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// GetEvent 活动详情
// GET /api/v1/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.eventSvc.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.NotFound(c, 14001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ListEvents 活动列表
// GET /api/v1/events
func (h *EventHandler) ListEvents(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.eventSvc.List(c.Request.Context(), &req, userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// UpdateEvent 更新活动（管理员，限未过期）
// PUT /api/v1/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.eventSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.NotFound(c, 14001, err.Error())
		case errors.Is(err, service.ErrEventEnded):
			response.Gone(c, 14002, err.Error())
		case errors.Is(err, service.ErrInvalidTimeFormat):
			response.BadRequest(c, 13002, err.Error())
		case errors.Is(err, service.ErrLinkedTrainingMissing):
			response.BadRequest(c, 14005, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// DeleteEvent 删除活动及报名（管理员）
// DELETE /api/v1/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.eventSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.NotFound(c, 14001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// Register 报名活动
// POST /api/v1/events/:id/register
func (h *EventHandler) Register(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.eventSvc.Register(c.Request.Context(), c.Param("id"), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.NotFound(c, 14001, err.Error())
		case errors.Is(err, service.ErrEventEnded):
			response.Gone(c, 14002, err.Error())
		case errors.Is(err, service.ErrEventAlreadyRegister):
			response.Conflict(c, 14003, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, nil)
}

// CancelRegistration 取消报名
// DELETE /api/v1/events/:id/register
func (h *EventHandler) CancelRegistration(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.eventSvc.CancelRegistration(c.Request.Context(), c.Param("id"), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.NotFound(c, 14001, err.Error())
		case errors.Is(err, service.ErrEventEnded):
			response.Gone(c, 14002, err.Error())
		case errors.Is(err, service.ErrEventNotRegistered):
			response.NotFound(c, 14004, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// MyRegistrations 我的活动参与记录
// GET /api/v1/events/my
func (h *EventHandler) MyRegistrations(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.eventSvc.MyRegistrations(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListRegistrations 报名名单（管理员，含身体数据）
// GET /api/v1/events/:id/registrations
func (h *EventHandler) ListRegistrations(c *gin.Context) {
	list, err := h.eventSvc.Registrations(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.NotFound(c, 14001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, list)
}
