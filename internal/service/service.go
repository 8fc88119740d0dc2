package service

import (
	"go.uber.org/zap"

	"github.com/6z6z6z6z/flag-guard-system/config"
	"github.com/6z6z6z6z/flag-guard-system/internal/repository"
	"github.com/6z6z6z6z/flag-guard-system/pkg/jwt"
	"github.com/6z6z6z6z/flag-guard-system/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	User      UserService
	Training  TrainingService
	Event     EventService
	Flag      FlagService
	Points    PointsService
	Dashboard DashboardService
}

// NewService 创建 Service 聚合
// rdb 可为 nil（Redis 不可用时黑名单功能降级）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	points := NewPointsService(repo, logger)
	return &Service{
		Auth:      NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:      NewUserService(repo, logger),
		Training:  NewTrainingService(repo, logger),
		Event:     NewEventService(repo, logger),
		Flag:      NewFlagService(cfg, repo, logger),
		Points:    points,
		Dashboard: NewDashboardService(repo, logger),
	}
}
