package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/6z6z6z6z/flag-guard-system/internal/model"
)

// UserListOptions 用户列表查询条件
type UserListOptions struct {
	Keyword string // 匹配 username/name/student_id
	Role    string
	SortBy  string // created_at | total_points | name
	Order   string // asc | desc
	Offset  int
	Limit   int
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByStudentID(ctx context.Context, studentID string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts UserListOptions) ([]model.User, int64, error)
	ListAll(ctx context.Context) ([]model.User, error)
	Search(ctx context.Context, query string, limit int) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role model.Role) (int64, error)
	// AddTotalPoints 原子累加积分缓存列，必须与积分历史写入同事务
	AddTotalPoints(ctx context.Context, id string, delta float64) error
	SetTotalPoints(ctx context.Context, id string, value float64) error
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByStudentID(ctx context.Context, studentID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", id).
		Updates(fields).Error
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", id).
		Delete(&model.User{}).Error
}

func (r *userRepo) List(ctx context.Context, opts UserListOptions) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.db.WithContext(ctx).Model(&model.User{})

	if opts.Keyword != "" {
		like := "%" + opts.Keyword + "%"
		db = db.Where("username ILIKE ? OR name ILIKE ? OR student_id ILIKE ?", like, like, like)
	}
	if opts.Role != "" {
		db = db.Where("role = ?", opts.Role)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := opts.SortBy
	switch sortBy {
	case "total_points", "name", "created_at":
	default:
		sortBy = "created_at"
	}
	order := "DESC"
	if opts.Order == "asc" {
		order = "ASC"
	}

	if err := db.Offset(opts.Offset).Limit(opts.Limit).
		Order(sortBy + " " + order).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepo) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepo) Search(ctx context.Context, query string, limit int) ([]model.User, error) {
	var users []model.User
	like := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("username ILIKE ? OR name ILIKE ? OR student_id ILIKE ?", like, like, like).
		Limit(limit).
		Order("name ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error
	return total, err
}

func (r *userRepo) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("role = ?", role).
		Count(&total).Error
	return total, err
}

func (r *userRepo) AddTotalPoints(ctx context.Context, id string, delta float64) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", id).
		UpdateColumn("total_points", gorm.Expr("total_points + ?", delta)).Error
}

func (r *userRepo) SetTotalPoints(ctx context.Context, id string, value float64) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", id).
		UpdateColumn("total_points", value).Error
}
