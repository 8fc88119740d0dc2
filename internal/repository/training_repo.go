package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/6z6z6z6z/flag-guard-system/internal/model"
)

// TrainingRepository 训练数据访问接口
type TrainingRepository interface {
	Create(ctx context.Context, training *model.Training) error
	GetByID(ctx context.Context, id string) (*model.Training, error)
	Update(ctx context.Context, training *model.Training) error
	Delete(ctx context.Context, id string) error
	// List 训练列表；onlyActive 为 true 时仅返回未结束且未取消的训练
	List(ctx context.Context, offset, limit int, onlyActive bool, now time.Time) ([]model.Training, int64, error)
	Count(ctx context.Context) (int64, error)
	// ListEndedWithoutAward 已过 end_time 且尚无任何 awarded 注册的训练（待考勤）
	ListEndedWithoutAward(ctx context.Context, now time.Time) ([]model.Training, error)
	// DeleteEventLinks 删除 event_trainings 中该训练的关联行
	DeleteEventLinks(ctx context.Context, trainingID string) error
}

// trainingRepo TrainingRepository 的 GORM 实现
type trainingRepo struct {
	db *gorm.DB
}

// NewTrainingRepo 创建 TrainingRepository 实例
func NewTrainingRepo(db *gorm.DB) TrainingRepository {
	return &trainingRepo{db: db}
}

func (r *trainingRepo) Create(ctx context.Context, training *model.Training) error {
	return r.db.WithContext(ctx).Create(training).Error
}

func (r *trainingRepo) GetByID(ctx context.Context, id string) (*model.Training, error) {
	var training model.Training
	err := r.db.WithContext(ctx).
		Where("training_id = ?", id).
		First(&training).Error
	if err != nil {
		return nil, err
	}
	return &training, nil
}

func (r *trainingRepo) Update(ctx context.Context, training *model.Training) error {
	return r.db.WithContext(ctx).Save(training).Error
}

func (r *trainingRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("training_id = ?", id).
		Delete(&model.Training{}).Error
}

func (r *trainingRepo) List(ctx context.Context, offset, limit int, onlyActive bool, now time.Time) ([]model.Training, int64, error) {
	var trainings []model.Training
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Training{})
	if onlyActive {
		db = db.Where("end_time > ? AND status = ?", now.UTC(), model.TrainingStatusScheduled)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("start_time DESC").
		Find(&trainings).Error; err != nil {
		return nil, 0, err
	}

	return trainings, total, nil
}

func (r *trainingRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Training{}).Count(&total).Error
	return total, err
}

func (r *trainingRepo) ListEndedWithoutAward(ctx context.Context, now time.Time) ([]model.Training, error) {
	var trainings []model.Training
	err := r.db.WithContext(ctx).
		Where("end_time <= ? AND status <> ?", now.UTC(), model.TrainingStatusCancelled).
		Where("NOT EXISTS (SELECT 1 FROM training_registrations tr WHERE tr.training_id = trainings.training_id AND tr.status = ?)",
			model.RegistrationStatusAwarded).
		Order("end_time DESC").
		Find(&trainings).Error
	return trainings, err
}

func (r *trainingRepo) DeleteEventLinks(ctx context.Context, trainingID string) error {
	return r.db.WithContext(ctx).
		Exec("DELETE FROM event_trainings WHERE training_id = ?", trainingID).Error
}
