package dto

import (
	"github.com/6z6z6z6z/flag-guard-system/internal/model"
	"github.com/6z6z6z6z/flag-guard-system/pkg/timeutil"
)

// ── 积分模块 DTO ──

// PointHistoryListRequest 积分历史查询参数
type PointHistoryListRequest struct {
	PaginationRequest
	ChangeType string `form:"change_type" binding:"omitempty,oneof=flag training event manual"`
}

// AllPointHistoryRequest 管理端全量积分台账查询参数
type AllPointHistoryRequest struct {
	PaginationRequest
	Keyword    string `form:"keyword"     binding:"omitempty,max=50"`
	ChangeType string `form:"change_type" binding:"omitempty,oneof=flag training event manual"`
}

// AdjustPointsRequest 手动调整积分请求
// delta 可正可负，必须非零且附说明
type AdjustPointsRequest struct {
	UserID      string  `json:"user_id"     binding:"required,uuid"`
	Points      float64 `json:"points"      binding:"required"`
	Description string  `json:"description" binding:"required,max=255"`
}

// PointHistoryResponse 积分历史行
type PointHistoryResponse struct {
	HistoryID    string  `json:"history_id"`
	UserID       string  `json:"user_id"`
	Name         string  `json:"name,omitempty"`
	StudentID    string  `json:"student_id,omitempty"`
	PointsChange float64 `json:"points_change"`
	ChangeType   string  `json:"change_type"`
	RelatedID    string  `json:"related_id,omitempty"`
	Description  string  `json:"description"`
	ChangeTime   string  `json:"change_time"`
}

// NewPointHistoryResponse 模型转响应（User 可选预加载）
func NewPointHistoryResponse(h *model.PointHistory) PointHistoryResponse {
	resp := PointHistoryResponse{
		HistoryID:    h.HistoryID,
		UserID:       h.UserID,
		PointsChange: h.PointsChange,
		ChangeType:   h.ChangeType,
		Description:  h.Description,
		ChangeTime:   timeutil.FormatDateTime(h.ChangeTime),
	}
	if h.RelatedID != nil {
		resp.RelatedID = *h.RelatedID
	}
	if h.User != nil {
		resp.Name = h.User.Name
		resp.StudentID = h.User.StudentID
	}
	return resp
}

// PointStatisticsResponse 个人积分统计
// 各项均以 SUM(points_change) 重算，不读 total_points 缓存
type PointStatisticsResponse struct {
	TotalPoints     float64 `json:"total_points"`
	ThisMonthPoints float64 `json:"this_month_points"`
	LastMonthPoints float64 `json:"last_month_points"`
}

// ReconcileResponse 积分缓存对账结果
type ReconcileResponse struct {
	Checked int `json:"checked"`
	Fixed   int `json:"fixed"`
}
