package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/6z6z6z6z/flag-guard-system/internal/model"
)

// EventRepository 活动数据访问接口
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]model.Event, int64, error)
	Count(ctx context.Context) (int64, error)
	// ReplaceTrainings 重建活动与训练的多对多关联
	ReplaceTrainings(ctx context.Context, event *model.Event, trainings []model.Training) error
	// DeleteTrainingLinks 删除 event_trainings 中该活动的关联行
	DeleteTrainingLinks(ctx context.Context, eventID string) error
}

// eventRepo EventRepository 的 GORM 实现
type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo 创建 EventRepository 实例
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Preload("Trainings").
		Where("event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).
		Omit("Trainings").
		Save(event).Error
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", id).
		Delete(&model.Event{}).Error
}

func (r *eventRepo) List(ctx context.Context, offset, limit int) ([]model.Event, int64, error) {
	var events []model.Event
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Event{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Trainings").
		Offset(offset).Limit(limit).
		Order("time DESC").
		Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *eventRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Event{}).Count(&total).Error
	return total, err
}

func (r *eventRepo) ReplaceTrainings(ctx context.Context, event *model.Event, trainings []model.Training) error {
	return r.db.WithContext(ctx).
		Model(event).
		Association("Trainings").
		Replace(trainings)
}

func (r *eventRepo) DeleteTrainingLinks(ctx context.Context, eventID string) error {
	return r.db.WithContext(ctx).
		Exec("DELETE FROM event_trainings WHERE event_id = ?", eventID).Error
}
