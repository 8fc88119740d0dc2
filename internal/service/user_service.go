package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/6z6z6z6z/flag-guard-system/internal/dto"
	"github.com/6z6z6z6z/flag-guard-system/internal/model"
	"github.com/6z6z6z6z/flag-guard-system/internal/repository"
)

// ── 用户模块业务错误 ──

var (
	ErrCannotDeleteSelf       = errors.New("不能删除自己的账号")
	ErrCannotDeleteSuperAdmin = errors.New("不能删除超级管理员账号")
	ErrCannotChangeOwnRole    = errors.New("不能修改自己的角色")
	ErrLastSuperAdmin         = errors.New("系统至少需要保留一名超级管理员")
	ErrInvalidRole            = errors.New("无效的角色")
)

// 用户搜索结果上限
const searchLimit = 10

// UserService 用户业务接口
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	// UpdateProfile 自助更新个人资料（仅身高/体重/鞋码）
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Search(ctx context.Context, query string) ([]dto.UserBrief, error)
	Create(ctx context.Context, operatorID string, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	Update(ctx context.Context, userID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	// Delete 删除用户及其全部关联数据（单事务级联）
	Delete(ctx context.Context, operatorID, targetID string) error
	// AssignRole 变更用户角色；不能改自己，最后一名超级管理员不可降级
	AssignRole(ctx context.Context, operatorID, targetID string, role model.Role) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 仅身体数据可自助修改，其他字段由管理员维护
	if req.Height != nil {
		user.Height = req.Height
	}
	if req.Weight != nil {
		user.Weight = req.Weight
	}
	if req.ShoeSize != nil {
		user.ShoeSize = req.ShoeSize
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新个人资料失败", zap.Error(err))
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, repository.UserListOptions{
		Keyword: req.Keyword,
		Role:    req.Role,
		SortBy:  req.SortBy,
		Order:   req.Order,
		Offset:  req.GetOffset(),
		Limit:   req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		list = append(list, dto.NewUserResponse(&users[i]))
	}
	return list, total, nil
}

func (s *userService) Search(ctx context.Context, query string) ([]dto.UserBrief, error) {
	users, err := s.repo.User.Search(ctx, query, searchLimit)
	if err != nil {
		s.logger.Error("搜索用户失败", zap.Error(err))
		return nil, err
	}

	list := make([]dto.UserBrief, 0, len(users))
	for i := range users {
		list = append(list, dto.UserBrief{
			UserID:    users[i].UserID,
			Name:      users[i].Name,
			StudentID: users[i].StudentID,
		})
	}
	return list, nil
}

func (s *userService) Create(ctx context.Context, operatorID string, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !studentIDPattern.MatchString(req.StudentID) {
		return nil, ErrInvalidStudentID
	}
	if req.PhoneNumber != "" && !phonePattern.MatchString(req.PhoneNumber) {
		return nil, ErrInvalidPhone
	}
	if !validPassword(req.Password) {
		return nil, ErrWeakPassword
	}

	if _, err := s.repo.User.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户名失败", zap.Error(err))
		return nil, err
	}
	if _, err := s.repo.User.GetByStudentID(ctx, req.StudentID); err == nil {
		return nil, ErrStudentIDExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询学号失败", zap.Error(err))
		return nil, err
	}

	role := model.RoleMember
	if req.Role != "" {
		role = model.Role(req.Role)
		if !role.Valid() || role == model.RoleSuperAdmin {
			return nil, ErrInvalidRole
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Name:         req.Name,
		StudentID:    req.StudentID,
		College:      req.College,
		Role:         role,
	}
	if req.PhoneNumber != "" {
		phone := req.PhoneNumber
		user.PhoneNumber = &phone
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("管理员创建用户",
		zap.String("operator_id", operatorID),
		zap.String("user_id", user.UserID),
		zap.String("role", user.Role.String()))

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, userID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if req.PhoneNumber != nil && *req.PhoneNumber != "" && !phonePattern.MatchString(*req.PhoneNumber) {
		return nil, ErrInvalidPhone
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.College != nil {
		user.College = *req.College
	}
	if req.PhoneNumber != nil {
		if *req.PhoneNumber == "" {
			user.PhoneNumber = nil
		} else {
			user.PhoneNumber = req.PhoneNumber
		}
	}
	if req.Height != nil {
		user.Height = req.Height
	}
	if req.Weight != nil {
		user.Weight = req.Weight
	}
	if req.ShoeSize != nil {
		user.ShoeSize = req.ShoeSize
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Error(err))
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *userService) Delete(ctx context.Context, operatorID, targetID string) error {
	if operatorID == targetID {
		return ErrCannotDeleteSelf
	}

	target, err := s.repo.User.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return err
	}
	if target.Role == model.RoleSuperAdmin {
		return ErrCannotDeleteSuperAdmin
	}

	// 级联删除顺序：积分历史 → 训练报名 → 活动报名 → 升降旗记录 → 用户本体
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	txRepo := s.repo.WithTx(tx)

	steps := []func() error{
		func() error { return txRepo.PointHistory.DeleteByUser(ctx, targetID) },
		func() error { return txRepo.TrainingRegistration.DeleteByUser(ctx, targetID) },
		func() error { return txRepo.EventRegistration.DeleteByUser(ctx, targetID) },
		func() error { return txRepo.FlagRecord.DeleteByUser(ctx, targetID) },
		func() error { return txRepo.User.Delete(ctx, targetID) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("级联删除用户失败，事务回滚",
				zap.String("target_id", targetID), zap.Error(err))
			return err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}

	s.logger.Info("删除用户及关联数据",
		zap.String("operator_id", operatorID),
		zap.String("target_id", targetID),
		zap.String("student_id", target.StudentID))
	return nil
}

func (s *userService) AssignRole(ctx context.Context, operatorID, targetID string, role model.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if operatorID == targetID {
		return ErrCannotChangeOwnRole
	}

	target, err := s.repo.User.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return err
	}

	// 最后一名超级管理员不可被降级
	if target.Role == model.RoleSuperAdmin && role != model.RoleSuperAdmin {
		count, err := s.repo.User.CountByRole(ctx, model.RoleSuperAdmin)
		if err != nil {
			s.logger.Error("统计超级管理员数失败", zap.Error(err))
			return err
		}
		if count <= 1 {
			return ErrLastSuperAdmin
		}
	}

	if err := s.repo.User.UpdateFields(ctx, targetID, map[string]interface{}{"role": role}); err != nil {
		s.logger.Error("更新角色失败", zap.Error(err))
		return err
	}

	s.logger.Info("变更用户角色",
		zap.String("operator_id", operatorID),
		zap.String("target_id", targetID),
		zap.String("old_role", target.Role.String()),
		zap.String("new_role", role.String()))
	return nil
}
