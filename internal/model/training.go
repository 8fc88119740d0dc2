package model

import "time"

// 训练状态
const (
	TrainingStatusScheduled = "scheduled"
	TrainingStatusEnded     = "ended"
	TrainingStatusCancelled = "cancelled"
)

// 报名状态
const (
	RegistrationStatusRegistered = "registered"
	RegistrationStatusAwarded    = "awarded" // 已考勤发分，不再参与后续批次
)

// 考勤状态与积分政策：present 全额、late/early_leave 半额、absent 零分
const (
	AttendancePresent    = "present"
	AttendanceLate       = "late"
	AttendanceEarlyLeave = "early_leave"
	AttendanceAbsent     = "absent"
)

// Training 训练 — 对应 trainings
type Training struct {
	TrainingID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"training_id"`
	Name       string    `gorm:"type:varchar(100);not null"                     json:"name"`
	StartTime  time.Time `gorm:"not null"                                       json:"start_time"`
	EndTime    time.Time `gorm:"not null"                                       json:"end_time"`
	Points     float64   `gorm:"not null;default:0"                             json:"points"`
	Location   string    `gorm:"type:varchar(100)"                              json:"location"`
	Status     string    `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"`
	CreatedBy  *string   `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Training) TableName() string { return "trainings" }

// TrainingRegistration 训练报名 — 对应 training_registrations
// (training_id, user_id) 唯一
type TrainingRegistration struct {
	RegistrationID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"registration_id"`
	TrainingID       string  `gorm:"type:uuid;not null;uniqueIndex:uq_training_user" json:"training_id"`
	UserID           string  `gorm:"type:uuid;not null;uniqueIndex:uq_training_user" json:"user_id"`
	Status           string  `gorm:"type:varchar(20);not null;default:'registered'" json:"status"`
	AttendanceStatus *string `gorm:"type:varchar(20)"                               json:"attendance_status,omitempty"`
	PointsAwarded    float64 `gorm:"not null;default:0"                             json:"points_awarded"`
	BaseModel

	// 关联
	User     *User     `gorm:"foreignKey:UserID;references:UserID"         json:"user,omitempty"`
	Training *Training `gorm:"foreignKey:TrainingID;references:TrainingID" json:"training,omitempty"`
}

// TableName 指定表名
func (TrainingRegistration) TableName() string { return "training_registrations" }
