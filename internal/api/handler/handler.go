package handler

import (
	"go.uber.org/zap"

	"github.com/6z6z6z6z/flag-guard-system/config"
	"github.com/6z6z6z6z/flag-guard-system/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	User      *UserHandler
	Training  *TrainingHandler
	Event     *EventHandler
	Flag      *FlagHandler
	Points    *PointsHandler
	Dashboard *DashboardHandler
	File      *FileHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		User:      NewUserHandler(svc.User),
		Training:  NewTrainingHandler(svc.Training),
		Event:     NewEventHandler(svc.Event),
		Flag:      NewFlagHandler(svc.Flag),
		Points:    NewPointsHandler(svc.Points),
		Dashboard: NewDashboardHandler(svc.Dashboard),
		File:      NewFileHandler(cfg, logger),
	}
}
