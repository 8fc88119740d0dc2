package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/6z6z6z6z/flag-guard-system/internal/model"
)

// PointHistoryRepository 积分历史数据访问接口
// 历史行只追加不修改；删除仅用于用户级联
type PointHistoryRepository interface {
	Create(ctx context.Context, history *model.PointHistory) error
	ListByUser(ctx context.Context, userID, changeType string, offset, limit int) ([]model.PointHistory, int64, error)
	// ListAll 管理端全量台账（联用户表支持关键词过滤）
	ListAll(ctx context.Context, keyword, changeType string, offset, limit int) ([]model.PointHistory, int64, error)
	// ListAllForExport 导出用全量台账（预加载用户，按时间倒序）
	ListAllForExport(ctx context.Context) ([]model.PointHistory, error)
	// SumByUser 用户积分总和（事实源重算）
	SumByUser(ctx context.Context, userID string) (float64, error)
	// SumByUserBetween 用户在 [start, end) 区间内的积分和
	SumByUserBetween(ctx context.Context, userID string, start, end time.Time) (float64, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// pointHistoryRepo PointHistoryRepository 的 GORM 实现
type pointHistoryRepo struct {
	db *gorm.DB
}

// NewPointHistoryRepo 创建 PointHistoryRepository 实例
func NewPointHistoryRepo(db *gorm.DB) PointHistoryRepository {
	return &pointHistoryRepo{db: db}
}

func (r *pointHistoryRepo) Create(ctx context.Context, history *model.PointHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *pointHistoryRepo) ListByUser(ctx context.Context, userID, changeType string, offset, limit int) ([]model.PointHistory, int64, error) {
	var items []model.PointHistory
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.PointHistory{}).
		Where("user_id = ?", userID)
	if changeType != "" {
		db = db.Where("change_type = ?", changeType)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("change_time DESC").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *pointHistoryRepo) ListAll(ctx context.Context, keyword, changeType string, offset, limit int) ([]model.PointHistory, int64, error) {
	var items []model.PointHistory
	var total int64

	db := r.db.WithContext(ctx).Model(&model.PointHistory{})
	if keyword != "" {
		like := "%" + keyword + "%"
		db = db.Joins("JOIN users ON users.user_id = point_history.user_id").
			Where("users.username ILIKE ? OR users.name ILIKE ? OR users.student_id ILIKE ?", like, like, like)
	}
	if changeType != "" {
		db = db.Where("change_type = ?", changeType)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").
		Offset(offset).Limit(limit).
		Order("change_time DESC").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *pointHistoryRepo) ListAllForExport(ctx context.Context) ([]model.PointHistory, error) {
	var items []model.PointHistory
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("change_time DESC").
		Find(&items).Error
	return items, err
}

func (r *pointHistoryRepo) SumByUser(ctx context.Context, userID string) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&model.PointHistory{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points_change), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *pointHistoryRepo) SumByUserBetween(ctx context.Context, userID string, start, end time.Time) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&model.PointHistory{}).
		Where("user_id = ? AND change_time >= ? AND change_time < ?", userID, start, end).
		Select("COALESCE(SUM(points_change), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *pointHistoryRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.PointHistory{}).Error
}
