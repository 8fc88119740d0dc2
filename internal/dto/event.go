package dto

import (
	"time"

	"github.com/6z6z6z6z/flag-guard-system/internal/model"
	"github.com/6z6z6z6z/flag-guard-system/pkg/timeutil"
)

// ── 活动模块 DTO ──

// CreateEventRequest 创建活动请求
type CreateEventRequest struct {
	Name            string   `json:"name"             binding:"required,max=100"`
	Time            string   `json:"time"             binding:"required"`
	Location        string   `json:"location"         binding:"omitempty,max=100"`
	UniformRequired string   `json:"uniform_required" binding:"omitempty,max=100"`
	TrainingIDs     []string `json:"training_ids"     binding:"omitempty,dive,uuid"`
}

// UpdateEventRequest 更新活动请求
type UpdateEventRequest struct {
	Name            *string  `json:"name"             binding:"omitempty,max=100"`
	Time            *string  `json:"time"`
	Location        *string  `json:"location"         binding:"omitempty,max=100"`
	UniformRequired *string  `json:"uniform_required" binding:"omitempty,max=100"`
	TrainingIDs     []string `json:"training_ids"     binding:"omitempty,dive,uuid"`
}

// EventListRequest 活动列表查询参数
type EventListRequest struct {
	PaginationRequest
}

// 活动派生状态展示值
const (
	EventStatusUpcoming = "未开始"
	EventStatusEnded    = "已结束"
)

// EventResponse 活动响应（状态由时间派生）
type EventResponse struct {
	EventID         string             `json:"event_id"`
	Name            string             `json:"name"`
	Time            string             `json:"time"`
	Location        string             `json:"location"`
	UniformRequired string             `json:"uniform_required"`
	Status          string             `json:"status"`
	CreatedAt       string             `json:"created_at"`
	Registered      bool               `json:"registered"` // 当前用户是否已报名
	Trainings       []TrainingResponse `json:"trainings,omitempty"`
}

// NewEventResponse 模型转响应
func NewEventResponse(e *model.Event, now time.Time, registered bool) EventResponse {
	status := EventStatusUpcoming
	if e.Expired(now) {
		status = EventStatusEnded
	}
	resp := EventResponse{
		EventID:         e.EventID,
		Name:            e.Name,
		Time:            timeutil.FormatDateTime(e.Time),
		Location:        e.Location,
		UniformRequired: e.UniformRequired,
		Status:          status,
		CreatedAt:       timeutil.FormatDateTime(e.CreatedAt),
		Registered:      registered,
	}
	for i := range e.Trainings {
		resp.Trainings = append(resp.Trainings, NewTrainingResponse(&e.Trainings[i], false))
	}
	return resp
}

// MyEventRecordResponse 我的活动参与记录（成员视图）
type MyEventRecordResponse struct {
	RegistrationID string         `json:"registration_id"`
	Status         string         `json:"status"`
	CreatedAt      string         `json:"created_at"`
	Event          *EventResponse `json:"event,omitempty"`
}

// NewMyEventRecordResponse 模型转响应（需预加载 Event）
func NewMyEventRecordResponse(r *model.EventRegistration, now time.Time) MyEventRecordResponse {
	resp := MyEventRecordResponse{
		RegistrationID: r.RegistrationID,
		Status:         r.Status,
		CreatedAt:      timeutil.FormatDateTime(r.CreatedAt),
	}
	if r.Event != nil {
		e := NewEventResponse(r.Event, now, true)
		resp.Event = &e
	}
	return resp
}

// EventRegistrationResponse 活动报名名单行（管理员视图，含身体数据用于配装）
type EventRegistrationResponse struct {
	RegistrationID string   `json:"registration_id"`
	UserID         string   `json:"user_id"`
	Name           string   `json:"name"`
	StudentID      string   `json:"student_id"`
	Height         *float64 `json:"height,omitempty"`
	Weight         *float64 `json:"weight,omitempty"`
	ShoeSize       *float64 `json:"shoe_size,omitempty"`
	Status         string   `json:"status"`
	CreatedAt      string   `json:"created_at"`
}

// NewEventRegistrationResponse 模型转响应（需预加载 User）
func NewEventRegistrationResponse(r *model.EventRegistration) EventRegistrationResponse {
	resp := EventRegistrationResponse{
		RegistrationID: r.RegistrationID,
		UserID:         r.UserID,
		Status:         r.Status,
		CreatedAt:      timeutil.FormatDateTime(r.CreatedAt),
	}
	if r.User != nil {
		resp.Name = r.User.Name
		resp.StudentID = r.User.StudentID
		resp.Height = r.User.Height
		resp.Weight = r.User.Weight
		resp.ShoeSize = r.User.ShoeSize
	}
	return resp
}
