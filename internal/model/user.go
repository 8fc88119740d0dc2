package model

// User 用户表 — 对应 users
// TotalPoints 是 point_history 累计值的展示缓存，唯一事实源在积分历史表
type User struct {
	UserID       string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string   `gorm:"type:varchar(50);not null;uniqueIndex"          json:"username"`
	PasswordHash string   `gorm:"type:varchar(255);not null"                     json:"-"`
	Name         string   `gorm:"type:varchar(50);not null"                      json:"name"`
	StudentID    string   `gorm:"type:varchar(10);not null;uniqueIndex"          json:"student_id"`
	College      string   `gorm:"type:varchar(100);not null"                     json:"college"`
	PhoneNumber  *string  `gorm:"type:varchar(15)"                               json:"phone_number,omitempty"`
	Role         Role     `gorm:"type:varchar(20);not null;default:'member'"     json:"role"`
	TotalPoints  float64  `gorm:"not null;default:0"                             json:"total_points"`
	Height       *float64 `json:"height,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
	ShoeSize     *float64 `json:"shoe_size,omitempty"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
