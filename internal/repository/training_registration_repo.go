package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/6z6z6z6z/flag-guard-system/internal/model"
)

// TrainingRegistrationRepository 训练报名数据访问接口
type TrainingRegistrationRepository interface {
	Create(ctx context.Context, reg *model.TrainingRegistration) error
	GetByTrainingAndUser(ctx context.Context, trainingID, userID string) (*model.TrainingRegistration, error)
	Update(ctx context.Context, reg *model.TrainingRegistration) error
	Delete(ctx context.Context, registrationID string) error
	// ListByTraining 训练的报名名单（预加载用户）
	ListByTraining(ctx context.Context, trainingID string) ([]model.TrainingRegistration, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.TrainingRegistration, int64, error)
	// ListTrainingIDsByUser 用户已报名的训练 ID 集合（用于列表标记）
	ListTrainingIDsByUser(ctx context.Context, userID string) ([]string, error)
	// ExistsAwarded 训练是否已有发分记录（考勤是否已审核过）
	ExistsAwarded(ctx context.Context, trainingID string) (bool, error)
	DeleteByTraining(ctx context.Context, trainingID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// trainingRegistrationRepo TrainingRegistrationRepository 的 GORM 实现
type trainingRegistrationRepo struct {
	db *gorm.DB
}

// NewTrainingRegistrationRepo 创建 TrainingRegistrationRepository 实例
func NewTrainingRegistrationRepo(db *gorm.DB) TrainingRegistrationRepository {
	return &trainingRegistrationRepo{db: db}
}

func (r *trainingRegistrationRepo) Create(ctx context.Context, reg *model.TrainingRegistration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *trainingRegistrationRepo) GetByTrainingAndUser(ctx context.Context, trainingID, userID string) (*model.TrainingRegistration, error) {
	var reg model.TrainingRegistration
	err := r.db.WithContext(ctx).
		Where("training_id = ? AND user_id = ?", trainingID, userID).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *trainingRegistrationRepo) Update(ctx context.Context, reg *model.TrainingRegistration) error {
	return r.db.WithContext(ctx).Save(reg).Error
}

func (r *trainingRegistrationRepo) Delete(ctx context.Context, registrationID string) error {
	return r.db.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		Delete(&model.TrainingRegistration{}).Error
}

func (r *trainingRegistrationRepo) ListByTraining(ctx context.Context, trainingID string) ([]model.TrainingRegistration, error) {
	var regs []model.TrainingRegistration
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("training_id = ?", trainingID).
		Order("created_at ASC").
		Find(&regs).Error
	return regs, err
}

func (r *trainingRegistrationRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.TrainingRegistration, int64, error) {
	var regs []model.TrainingRegistration
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.TrainingRegistration{}).
		Where("user_id = ?", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Training").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&regs).Error; err != nil {
		return nil, 0, err
	}

	return regs, total, nil
}

func (r *trainingRegistrationRepo) ListTrainingIDsByUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.TrainingRegistration{}).
		Where("user_id = ?", userID).
		Pluck("training_id", &ids).Error
	return ids, err
}

func (r *trainingRegistrationRepo) ExistsAwarded(ctx context.Context, trainingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TrainingRegistration{}).
		Where("training_id = ? AND status = ?", trainingID, model.RegistrationStatusAwarded).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *trainingRegistrationRepo) DeleteByTraining(ctx context.Context, trainingID string) error {
	return r.db.WithContext(ctx).
		Where("training_id = ?", trainingID).
		Delete(&model.TrainingRegistration{}).Error
}

func (r *trainingRegistrationRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.TrainingRegistration{}).Error
}
