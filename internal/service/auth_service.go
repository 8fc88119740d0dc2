package service

import (
	"context"
	"errors"
	"regexp"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/6z6z6z6z/flag-guard-system/config"
	"github.com/6z6z6z6z/flag-guard-system/internal/dto"
	"github.com/6z6z6z6z/flag-guard-system/internal/model"
	"github.com/6z6z6z6z/flag-guard-system/internal/repository"
	"github.com/6z6z6z6z/flag-guard-system/pkg/jwt"
	"github.com/6z6z6z6z/flag-guard-system/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUsernameExists     = errors.New("用户名已存在")
	ErrStudentIDExists    = errors.New("学号已被注册")
	ErrInvalidStudentID   = errors.New("学号格式不正确，应为2位大写字母+8位数字")
	ErrInvalidPhone       = errors.New("手机号格式不正确")
	ErrWeakPassword       = errors.New("密码必须为8-20位且同时包含字母和数字")
	ErrWrongOldPassword   = errors.New("旧密码错误")
	ErrTokenInvalid       = errors.New("token 无效或已失效")
)

// 学号格式：2 位大写字母 + 8 位数字
var studentIDPattern = regexp.MustCompile(`^[A-Z]{2}\d{8}$`)

// 手机号：10-15 位数字
var phonePattern = regexp.MustCompile(`^\d{10,15}$`)

// AuthService 认证业务接口
type AuthService interface {
	// Register 注册新用户；用户表为空时首个注册者自动成为超级管理员
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
	// Logout 将当前 Token 的 JTI 加入黑名单（Redis 不可用时为空操作）
	Logout(ctx context.Context, claims *jwt.Claims) error
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	// 1. 格式校验
	if !studentIDPattern.MatchString(req.StudentID) {
		return nil, ErrInvalidStudentID
	}
	if req.PhoneNumber != "" && !phonePattern.MatchString(req.PhoneNumber) {
		return nil, ErrInvalidPhone
	}
	if !validPassword(req.Password) {
		return nil, ErrWeakPassword
	}

	// 2. 唯一性检查
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

	// 3. 首个注册用户引导为超级管理员
	role := model.RoleMember
	count, err := s.repo.User.Count(ctx)
	if err != nil {
		s.logger.Error("统计用户数失败", zap.Error(err))
		return nil, err
	}
	if count == 0 {
		role = model.RoleSuperAdmin
		s.logger.Info("用户表为空，首个注册用户将成为超级管理员",
			zap.String("username", req.Username))
	}

	// 4. 密码哈希并创建
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

	s.logger.Info("用户注册成功",
		zap.String("user_id", user.UserID),
		zap.String("username", user.Username),
		zap.String("role", user.Role.String()))

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token 对
	return s.buildTokenResponse(user)
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
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

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.rdb == nil {
		// Redis 不可用时降级：Token 在过期前仍然有效
		s.logger.Warn("Redis 不可用，登出未写入黑名单", zap.String("user_id", claims.UserID))
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("写入 Token 黑名单失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if claims.TokenType != "refresh" {
		return nil, ErrTokenInvalid
	}
	if s.rdb != nil {
		blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("黑名单查询失败，放行刷新请求", zap.Error(err))
		} else if blacklisted {
			return nil, ErrTokenInvalid
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	return s.buildTokenResponse(user)
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongOldPassword
	}
	if !validPassword(req.NewPassword) {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}

	user.PasswordHash = string(hash)
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新密码失败", zap.Error(err))
		return err
	}

	s.logger.Info("用户修改密码", zap.String("user_id", userID))
	return nil
}

// ── 内部辅助方法 ──

func (s *authService) buildTokenResponse(user *model.User) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role.String())
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role.String())
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User:         dto.NewUserResponse(user),
	}, nil
}

// validPassword 密码强度：8-20 位且同时包含字母和数字
func validPassword(pwd string) bool {
	if len(pwd) < 8 || len(pwd) > 20 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, c := range pwd {
		switch {
		case unicode.IsLetter(c):
			hasLetter = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
