package model

import "time"

// 积分变动类型
const (
	PointChangeFlag     = "flag"
	PointChangeTraining = "training"
	PointChangeEvent    = "event"
	PointChangeManual   = "manual"
)

// PointHistory 积分历史 — 对应 point_history
// 只追加不修改：纠错通过补偿行（负 delta）完成，历史行仅随用户级联删除
type PointHistory struct {
	HistoryID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"history_id"`
	UserID       string    `gorm:"type:uuid;not null"                             json:"user_id"`
	PointsChange float64   `gorm:"not null"                                       json:"points_change"`
	ChangeType   string    `gorm:"type:varchar(20);not null"                      json:"change_type"`
	RelatedID    *string   `gorm:"type:uuid"                                      json:"related_id,omitempty"`
	Description  string    `gorm:"type:varchar(255)"                              json:"description"`
	ChangeTime   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"change_time"`

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (PointHistory) TableName() string { return "point_history" }
