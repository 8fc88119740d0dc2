package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/6z6z6z6z/flag-guard-system/internal/model"
)

// EventRegistrationRepository 活动报名数据访问接口
type EventRegistrationRepository interface {
	Create(ctx context.Context, reg *model.EventRegistration) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*model.EventRegistration, error)
	Delete(ctx context.Context, registrationID string) error
	// ListByEvent 活动的报名名单（预加载用户，含身体数据）
	ListByEvent(ctx context.Context, eventID string) ([]model.EventRegistration, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.EventRegistration, int64, error)
	// ListEventIDsByUser 用户已报名的活动 ID 集合（用于列表标记）
	ListEventIDsByUser(ctx context.Context, userID string) ([]string, error)
	DeleteByEvent(ctx context.Context, eventID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// eventRegistrationRepo EventRegistrationRepository 的 GORM 实现
type eventRegistrationRepo struct {
	db *gorm.DB
}

// NewEventRegistrationRepo 创建 EventRegistrationRepository 实例
func NewEventRegistrationRepo(db *gorm.DB) EventRegistrationRepository {
	return &eventRegistrationRepo{db: db}
}

func (r *eventRegistrationRepo) Create(ctx context.Context, reg *model.EventRegistration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *eventRegistrationRepo) GetByEventAndUser(ctx context.Context, eventID, userID string) (*model.EventRegistration, error) {
	var reg model.EventRegistration
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *eventRegistrationRepo) Delete(ctx context.Context, registrationID string) error {
	return r.db.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		Delete(&model.EventRegistration{}).Error
}

func (r *eventRegistrationRepo) ListByEvent(ctx context.Context, eventID string) ([]model.EventRegistration, error) {
	var regs []model.EventRegistration
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&regs).Error
	return regs, err
}

func (r *eventRegistrationRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.EventRegistration, int64, error) {
	var regs []model.EventRegistration
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.EventRegistration{}).
		Where("user_id = ?", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Event").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&regs).Error; err != nil {
		return nil, 0, err
	}

	return regs, total, nil
}

func (r *eventRegistrationRepo) ListEventIDsByUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.EventRegistration{}).
		Where("user_id = ?", userID).
		Pluck("event_id", &ids).Error
	return ids, err
}

func (r *eventRegistrationRepo) DeleteByEvent(ctx context.Context, eventID string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&model.EventRegistration{}).Error
}

func (r *eventRegistrationRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.EventRegistration{}).Error
}
