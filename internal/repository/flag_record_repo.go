package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/6z6z6z6z/flag-guard-system/internal/model"
)

// FlagRecordRepository 升降旗记录数据访问接口
type FlagRecordRepository interface {
	Create(ctx context.Context, record *model.FlagRecord) error
	GetByID(ctx context.Context, id string) (*model.FlagRecord, error)
	ListByUser(ctx context.Context, userID, status string, offset, limit int) ([]model.FlagRecord, int64, error)
	// ListAll 管理端审核列表（预加载申请人与审核人）
	ListAll(ctx context.Context, status string, offset, limit int) ([]model.FlagRecord, int64, error)
	ListPending(ctx context.Context, limit int) ([]model.FlagRecord, error)
	Count(ctx context.Context) (int64, error)
	// MarkReviewed 条件更新：仅当 status 仍为 pending 时落审核结果，
	// 返回受影响行数；0 行表示记录不存在或已被审核
	MarkReviewed(ctx context.Context, recordID, status, reviewerID string, reviewedAt time.Time, points float64) (int64, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// flagRecordRepo FlagRecordRepository 的 GORM 实现
type flagRecordRepo struct {
	db *gorm.DB
}

// NewFlagRecordRepo 创建 FlagRecordRepository 实例
func NewFlagRecordRepo(db *gorm.DB) FlagRecordRepository {
	return &flagRecordRepo{db: db}
}

func (r *flagRecordRepo) Create(ctx context.Context, record *model.FlagRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *flagRecordRepo) GetByID(ctx context.Context, id string) (*model.FlagRecord, error) {
	var record model.FlagRecord
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Reviewer").
		Where("record_id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *flagRecordRepo) ListByUser(ctx context.Context, userID, status string, offset, limit int) ([]model.FlagRecord, int64, error) {
	var records []model.FlagRecord
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.FlagRecord{}).
		Where("user_id = ?", userID)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("date DESC, created_at DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *flagRecordRepo) ListAll(ctx context.Context, status string, offset, limit int) ([]model.FlagRecord, int64, error) {
	var records []model.FlagRecord
	var total int64

	db := r.db.WithContext(ctx).Model(&model.FlagRecord{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").
		Preload("Reviewer").
		Offset(offset).Limit(limit).
		Order("date DESC, created_at DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *flagRecordRepo) ListPending(ctx context.Context, limit int) ([]model.FlagRecord, error) {
	var records []model.FlagRecord
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", model.FlagStatusPending).
		Order("date ASC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *flagRecordRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.FlagRecord{}).Count(&total).Error
	return total, err
}

func (r *flagRecordRepo) MarkReviewed(ctx context.Context, recordID, status, reviewerID string, reviewedAt time.Time, points float64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.FlagRecord{}).
		Where("record_id = ? AND status = ?", recordID, model.FlagStatusPending).
		Updates(map[string]interface{}{
			"status":         status,
			"reviewer_id":    reviewerID,
			"reviewed_at":    reviewedAt,
			"points_awarded": points,
		})
	return result.RowsAffected, result.Error
}

func (r *flagRecordRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.FlagRecord{}).Error
}
