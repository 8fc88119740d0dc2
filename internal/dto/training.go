package dto

import (
	"github.com/6z6z6z6z/flag-guard-system/internal/model"
	"github.com/6z6z6z6z/flag-guard-system/pkg/timeutil"
)

// ── 训练模块 DTO ──

// CreateTrainingRequest 创建训练请求
// 时间为北京时间 "2006-01-02 15:04:05" 字符串，service 层解析为 UTC
type CreateTrainingRequest struct {
	Name      string  `json:"name"       binding:"required,max=100"`
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   string  `json:"end_time"   binding:"required"`
	Points    float64 `json:"points"     binding:"omitempty,gte=0"`
	Location  string  `json:"location"   binding:"omitempty,max=100"`
}

// UpdateTrainingRequest 更新训练请求
type UpdateTrainingRequest struct {
	Name      *string  `json:"name"       binding:"omitempty,max=100"`
	StartTime *string  `json:"start_time"`
	EndTime   *string  `json:"end_time"`
	Points    *float64 `json:"points"     binding:"omitempty,gte=0"`
	Location  *string  `json:"location"   binding:"omitempty,max=100"`
	Status    *string  `json:"status"     binding:"omitempty,oneof=scheduled ended cancelled"`
}

// TrainingListRequest 训练列表查询参数
type TrainingListRequest struct {
	PaginationRequest
}

// TrainingResponse 训练响应
type TrainingResponse struct {
	TrainingID string  `json:"training_id"`
	Name       string  `json:"name"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	Points     float64 `json:"points"`
	Location   string  `json:"location"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
	Registered bool    `json:"registered"` // 当前用户是否已报名
}

// NewTrainingResponse 模型转响应
func NewTrainingResponse(t *model.Training, registered bool) TrainingResponse {
	return TrainingResponse{
		TrainingID: t.TrainingID,
		Name:       t.Name,
		StartTime:  timeutil.FormatDateTime(t.StartTime),
		EndTime:    timeutil.FormatDateTime(t.EndTime),
		Points:     t.Points,
		Location:   t.Location,
		Status:     t.Status,
		CreatedAt:  timeutil.FormatDateTime(t.CreatedAt),
		Registered: registered,
	}
}

// AttendanceRecord 单条考勤提交
type AttendanceRecord struct {
	UserID           string `json:"user_id"           binding:"required,uuid"`
	AttendanceStatus string `json:"attendance_status" binding:"required,oneof=present late early_leave absent"`
}

// SubmitAttendanceRequest 批量考勤提交请求
type SubmitAttendanceRequest struct {
	Records []AttendanceRecord `json:"records" binding:"required,min=1,dive"`
}

// AttendanceResultResponse 考勤处理结果
type AttendanceResultResponse struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"` // 已发分被跳过的条数
	Failed    int `json:"failed"`
}

// MyTrainingRecordResponse 我的训练参与记录（成员视图，含考勤结果）
type MyTrainingRecordResponse struct {
	RegistrationID   string            `json:"registration_id"`
	Status           string            `json:"status"`
	AttendanceStatus string            `json:"attendance_status,omitempty"`
	PointsAwarded    float64           `json:"points_awarded"`
	CreatedAt        string            `json:"created_at"`
	Training         *TrainingResponse `json:"training,omitempty"`
}

// NewMyTrainingRecordResponse 模型转响应（需预加载 Training）
func NewMyTrainingRecordResponse(r *model.TrainingRegistration) MyTrainingRecordResponse {
	resp := MyTrainingRecordResponse{
		RegistrationID: r.RegistrationID,
		Status:         r.Status,
		PointsAwarded:  r.PointsAwarded,
		CreatedAt:      timeutil.FormatDateTime(r.CreatedAt),
	}
	if r.AttendanceStatus != nil {
		resp.AttendanceStatus = *r.AttendanceStatus
	}
	if r.Training != nil {
		t := NewTrainingResponse(r.Training, true)
		resp.Training = &t
	}
	return resp
}

// TrainingRegistrationResponse 训练报名名单行（管理员视图）
type TrainingRegistrationResponse struct {
	RegistrationID   string  `json:"registration_id"`
	UserID           string  `json:"user_id"`
	Name             string  `json:"name"`
	StudentID        string  `json:"student_id"`
	Status           string  `json:"status"`
	AttendanceStatus string  `json:"attendance_status,omitempty"`
	PointsAwarded    float64 `json:"points_awarded"`
	CreatedAt        string  `json:"created_at"`
}

// NewTrainingRegistrationResponse 模型转响应（需预加载 User）
func NewTrainingRegistrationResponse(r *model.TrainingRegistration) TrainingRegistrationResponse {
	resp := TrainingRegistrationResponse{
		RegistrationID: r.RegistrationID,
		UserID:         r.UserID,
		Status:         r.Status,
		PointsAwarded:  r.PointsAwarded,
		CreatedAt:      timeutil.FormatDateTime(r.CreatedAt),
	}
	if r.AttendanceStatus != nil {
		resp.AttendanceStatus = *r.AttendanceStatus
	}
	if r.User != nil {
		resp.Name = r.User.Name
		resp.StudentID = r.User.StudentID
	}
	return resp
}
