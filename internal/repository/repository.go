package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User                 UserRepository
	Training             TrainingRepository
	TrainingRegistration TrainingRegistrationRepository
	Event                EventRepository
	EventRegistration    EventRegistrationRepository
	FlagRecord           FlagRecordRepository
	PointHistory         PointHistoryRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:                   db,
		User:                 NewUserRepo(db),
		Training:             NewTrainingRepo(db),
		TrainingRegistration: NewTrainingRegistrationRepo(db),
		Event:                NewEventRepo(db),
		EventRegistration:    NewEventRegistrationRepo(db),
		FlagRecord:           NewFlagRecordRepo(db),
		PointHistory:         NewPointHistoryRepo(db),
	}
}

// BeginTx 开启数据库事务
// db 未初始化时（单元测试注入 mock）返回 nil 事务，调用方需判空
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务连接的 Repository 聚合
// 与 BeginTx 配套使用，由 service 层负责 Commit/Rollback
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
