package dto

import (
	"github.com/6z6z6z6z/flag-guard-system/internal/model"
	"github.com/6z6z6z6z/flag-guard-system/pkg/timeutil"
)

// ── 升降旗模块 DTO ──

// CreateFlagRecordRequest 提交升降旗记录请求
// date 为 "2006-01-02" 日期字符串
type CreateFlagRecordRequest struct {
	Date     string `json:"date"      binding:"required"`
	Type     string `json:"type"      binding:"required,oneof=raise lower"`
	PhotoURL string `json:"photo_url" binding:"omitempty,max=255"`
}

// FlagRecordListRequest 升降旗记录列表查询参数
type FlagRecordListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

// FlagRecordResponse 升降旗记录响应
type FlagRecordResponse struct {
	RecordID      string  `json:"record_id"`
	UserID        string  `json:"user_id"`
	Name          string  `json:"name,omitempty"`
	StudentID     string  `json:"student_id,omitempty"`
	Date          string  `json:"date"`
	Type          string  `json:"type"`
	PhotoURL      string  `json:"photo_url,omitempty"`
	Status        string  `json:"status"`
	PointsAwarded float64 `json:"points_awarded"`
	ReviewerName  string  `json:"reviewer_name,omitempty"`
	ReviewedAt    string  `json:"reviewed_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// NewFlagRecordResponse 模型转响应（User/Reviewer 可选预加载）
func NewFlagRecordResponse(r *model.FlagRecord) FlagRecordResponse {
	resp := FlagRecordResponse{
		RecordID:      r.RecordID,
		UserID:        r.UserID,
		Date:          r.Date.Format(timeutil.DateLayout),
		Type:          r.Type,
		Status:        r.Status,
		PointsAwarded: r.PointsAwarded,
		ReviewedAt:    timeutil.FormatDateTimePtr(r.ReviewedAt),
		CreatedAt:     timeutil.FormatDateTime(r.CreatedAt),
	}
	if r.PhotoURL != nil {
		resp.PhotoURL = *r.PhotoURL
	}
	if r.User != nil {
		resp.Name = r.User.Name
		resp.StudentID = r.User.StudentID
	}
	if r.Reviewer != nil {
		resp.ReviewerName = r.Reviewer.Name
	}
	return resp
}
