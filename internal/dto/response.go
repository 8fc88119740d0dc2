package dto

import (
	"github.com/6z6z6z6z/flag-guard-system/internal/model"
	"github.com/6z6z6z6z/flag-guard-system/pkg/timeutil"
)

// ── 用户响应 ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	Name        string   `json:"name"`
	StudentID   string   `json:"student_id"`
	College     string   `json:"college"`
	PhoneNumber string   `json:"phone_number,omitempty"`
	Role        string   `json:"role"`
	TotalPoints float64  `json:"total_points"`
	Height      *float64 `json:"height,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	ShoeSize    *float64 `json:"shoe_size,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

// NewUserResponse 模型转响应
func NewUserResponse(u *model.User) UserResponse {
	resp := UserResponse{
		UserID:      u.UserID,
		Username:    u.Username,
		Name:        u.Name,
		StudentID:   u.StudentID,
		College:     u.College,
		Role:        u.Role.String(),
		TotalPoints: u.TotalPoints,
		Height:      u.Height,
		Weight:      u.Weight,
		ShoeSize:    u.ShoeSize,
		CreatedAt:   timeutil.FormatDateTime(u.CreatedAt),
	}
	if u.PhoneNumber != nil {
		resp.PhoneNumber = *u.PhoneNumber
	}
	return resp
}

// UserBrief 搜索/名单中的用户摘要
type UserBrief struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
}

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}
