package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/6z6z6z6z/flag-guard-system/internal/dto"
	"github.com/6z6z6z6z/flag-guard-system/internal/model"
	"github.com/6z6z6z6z/flag-guard-system/internal/service"
	"github.com/6z6z6z6z/flag-guard-system/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// GetProfile 个人资料
// GET /api/v1/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.userSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 12001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// UpdateProfile 更新个人资料（仅身体数据）
// PUT /api/v1/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.userSvc.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 12001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ListUsers 用户列表（管理员）
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// SearchUsers 用户搜索（限量摘要）
// GET /api/v1/users/search
func (h *UserHandler) SearchUsers(c *gin.Context) {
	var req dto.UserSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.userSvc.Search(c.Request.Context(), req.Query)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, list)
}

// CreateUser 创建用户（管理员）
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.userSvc.Create(c.Request.Context(), operatorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameExists):
			response.Conflict(c, 11002, err.Error())
		case errors.Is(err, service.ErrStudentIDExists):
			response.Conflict(c, 11003, err.Error())
		case errors.Is(err, service.ErrInvalidStudentID):
			response.BadRequest(c, 11004, err.Error())
		case errors.Is(err, service.ErrInvalidPhone):
			response.BadRequest(c, 11005, err.Error())
		case errors.Is(err, service.ErrWeakPassword):
			response.BadRequest(c, 11006, err.Error())
		case errors.Is(err, service.ErrInvalidRole):
			response.BadRequest(c, 12006, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// UpdateUser 更新用户（管理员）
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.userSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 12001, err.Error())
		case errors.Is(err, service.ErrInvalidPhone):
			response.BadRequest(c, 11005, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// DeleteUser 删除用户及关联数据（仅超级管理员）
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), operatorID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 12001, err.Error())
		case errors.Is(err, service.ErrCannotDeleteSelf):
			response.Forbidden(c, 12002, err.Error())
		case errors.Is(err, service.ErrCannotDeleteSuperAdmin):
			response.Forbidden(c, 12003, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// AssignRole 变更用户角色（仅超级管理员）
// PUT /api/v1/users/:id/role
func (h *UserHandler) AssignRole(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.userSvc.AssignRole(c.Request.Context(), operatorID, c.Param("id"), model.Role(req.Role)); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 12001, err.Error())
		case errors.Is(err, service.ErrCannotChangeOwnRole):
			response.Forbidden(c, 12004, err.Error())
		case errors.Is(err, service.ErrLastSuperAdmin):
			response.Conflict(c, 12005, err.Error())
		case errors.Is(err, service.ErrInvalidRole):
			response.BadRequest(c, 12006, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}
