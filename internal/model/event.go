package model

import "time"

// Event 活动 — 对应 events
// 活动无持久化状态列，是否过期由 time 与当前时间比较派生
type Event struct {
	EventID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	Name            string    `gorm:"type:varchar(100);not null"                     json:"name"`
	Time            time.Time `gorm:"not null"                                       json:"time"`
	Location        string    `gorm:"type:varchar(100)"                              json:"location"`
	UniformRequired string    `gorm:"type:varchar(100)"                              json:"uniform_required"`
	CreatedBy       *string   `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	BaseModel

	// 关联训练（多对多）
	Trainings []Training `gorm:"many2many:event_trainings;foreignKey:EventID;joinForeignKey:EventID;references:TrainingID;joinReferences:TrainingID" json:"trainings,omitempty"`
}

// TableName 指定表名
func (Event) TableName() string { return "events" }

// Expired 活动是否已过期（UTC 比较，time 到点即过期）
func (e *Event) Expired(now time.Time) bool {
	return !now.UTC().Before(e.Time)
}

// EventRegistration 活动报名 — 对应 event_registrations
// (event_id, user_id) 唯一
type EventRegistration struct {
	RegistrationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"registration_id"`
	EventID        string `gorm:"type:uuid;not null;uniqueIndex:uq_event_user"   json:"event_id"`
	UserID         string `gorm:"type:uuid;not null;uniqueIndex:uq_event_user"   json:"user_id"`
	Status         string `gorm:"type:varchar(20);not null;default:'registered'" json:"status"`
	BaseModel

	// 关联
	User  *User  `gorm:"foreignKey:UserID;references:UserID"   json:"user,omitempty"`
	Event *Event `gorm:"foreignKey:EventID;references:EventID" json:"event,omitempty"`
}

// TableName 指定表名
func (EventRegistration) TableName() string { return "event_registrations" }
