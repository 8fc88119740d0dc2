package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/6z6z6z6z/flag-guard-system/internal/dto"
	"github.com/6z6z6z6z/flag-guard-system/internal/model"
	"github.com/6z6z6z6z/flag-guard-system/internal/service"
	"github.com/6z6z6z6z/flag-guard-system/pkg/response"
)

// TrainingHandler 训练模块 HTTP 处理器
type TrainingHandler struct {
	trainingSvc service.TrainingService
}

// NewTrainingHandler 创建 TrainingHandler
func NewTrainingHandler(trainingSvc service.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainingSvc: trainingSvc}
}

// CreateTraining 创建训练（管理员）
// POST /api/v1/trainings
func (h *TrainingHandler) CreateTraining(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.trainingSvc.Create(c.Request.Context(), operatorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTimeFormat):
			response.BadRequest(c, 13002, err.Error())
		case errors.Is(err, service.ErrInvalidTimeRange):
			response.BadRequest(c, 13003, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// GetTraining 训练详情
// GET /api/v1/trainings/:id
func (h *TrainingHandler) GetTraining(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.trainingSvc.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, service.ErrTrainingNotFound) {
			response.NotFound(c, 13001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ListTrainings 训练列表；非管理员仅见未结束训练
// GET /api/v1/trainings
func (h *TrainingHandler) ListTrainings(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var req dto.TrainingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	isAdmin := model.Role(role).AtLeast(model.RoleAdmin)
	list, total, err := h.trainingSvc.List(c.Request.Context(), &req, userID, isAdmin)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// UpdateTraining 更新训练（管理员）
// PUT /api/v1/trainings/:id
func (h *TrainingHandler) UpdateTraining(c *gin.Context) {
	var req dto.UpdateTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.trainingSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrainingNotFound):
			response.NotFound(c, 13001, err.Error())
		case errors.Is(err, service.ErrInvalidTimeFormat):
			response.BadRequest(c, 13002, err.Error())
		case errors.Is(err, service.ErrInvalidTimeRange):
			response.BadRequest(c, 13003, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// DeleteTraining 删除训练及报名（管理员）
// DELETE /api/v1/trainings/:id
func (h *TrainingHandler) DeleteTraining(c *gin.Context) {
	if err := h.trainingSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrTrainingNotFound) {
			response.NotFound(c, 13001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// Register 报名训练
// POST /api/v1/trainings/:id/register
func (h *TrainingHandler) Register(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.trainingSvc.Register(c.Request.Context(), c.Param("id"), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrTrainingNotFound):
			response.NotFound(c, 13001, err.Error())
		case errors.Is(err, service.ErrTrainingEnded):
			response.Gone(c, 13004, err.Error())
		case errors.Is(err, service.ErrTrainingCancelled):
			response.Gone(c, 13008, err.Error())
		case errors.Is(err, service.ErrAlreadyRegistered):
			response.Conflict(c, 13005, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, nil)
}

// CancelRegistration 取消报名
// DELETE /api/v1/trainings/:id/register
func (h *TrainingHandler) CancelRegistration(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.trainingSvc.CancelRegistration(c.Request.Context(), c.Param("id"), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrTrainingNotFound):
			response.NotFound(c, 13001, err.Error())
		case errors.Is(err, service.ErrTrainingEnded):
			response.Gone(c, 13004, err.Error())
		case errors.Is(err, service.ErrNotRegistered):
			response.NotFound(c, 13006, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// MyRegistrations 我的训练参与记录
// GET /api/v1/trainings/my
func (h *TrainingHandler) MyRegistrations(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.TrainingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.trainingSvc.MyRegistrations(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListRegistrations 报名名单（管理员）
// GET /api/v1/trainings/:id/registrations
func (h *TrainingHandler) ListRegistrations(c *gin.Context) {
	list, err := h.trainingSvc.Registrations(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTrainingNotFound) {
			response.NotFound(c, 13001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, list)
}

// SubmitAttendance 批量提交考勤并发分（管理员）
// POST /api/v1/trainings/:id/attendance
func (h *TrainingHandler) SubmitAttendance(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.trainingSvc.SubmitAttendance(c.Request.Context(), c.Param("id"), operatorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrainingNotFound):
			response.NotFound(c, 13001, err.Error())
		case errors.Is(err, service.ErrAttendanceReviewed):
			response.Conflict(c, 13007, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}
