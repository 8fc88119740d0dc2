package model

import "time"

// 升降旗记录类型与状态
const (
	FlagTypeRaise = "raise"
	FlagTypeLower = "lower"

	FlagStatusPending  = "pending"
	FlagStatusApproved = "approved"
	FlagStatusRejected = "rejected"
)

// FlagRecord 升降旗记录 — 对应 flag_records
// 状态机：pending → approved | rejected，审核后不可再变更
type FlagRecord struct {
	RecordID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"record_id"`
	UserID        string     `gorm:"type:uuid;not null"                             json:"user_id"`
	Date          time.Time  `gorm:"type:date;not null"                             json:"date"`
	Type          string     `gorm:"type:varchar(10);not null"                      json:"type"`
	PhotoURL      *string    `gorm:"type:varchar(255)"                              json:"photo_url,omitempty"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	PointsAwarded float64    `gorm:"not null;default:0"                             json:"points_awarded"`
	ReviewerID    *string    `gorm:"type:uuid"                                      json:"reviewer_id,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	BaseModel

	// 关联
	User     *User `gorm:"foreignKey:UserID;references:UserID"     json:"user,omitempty"`
	Reviewer *User `gorm:"foreignKey:ReviewerID;references:UserID" json:"reviewer,omitempty"`
}

// TableName 指定表名
func (FlagRecord) TableName() string { return "flag_records" }
