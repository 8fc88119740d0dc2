package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/6z6z6z6z/flag-guard-system/internal/dto"
	"github.com/6z6z6z6z/flag-guard-system/internal/service"
	"github.com/6z6z6z6z/flag-guard-system/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register 用户注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
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
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, 11001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Me 当前用户信息
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.authSvc.Me(c.Request.Context(), userID)
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

// Logout 用户登出（Token JTI 入黑名单）
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// RefreshToken 刷新 Token
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenInvalid):
			response.Unauthorized(c, 11008, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.Unauthorized(c, 11008, "token 无效或已失效")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// ChangePassword 修改密码
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrWrongOldPassword):
			response.BadRequest(c, 11007, err.Error())
		case errors.Is(err, service.ErrWeakPassword):
			response.BadRequest(c, 11006, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 12001, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}
