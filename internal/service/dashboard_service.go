package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/6z6z6z6z/flag-guard-system/internal/dto"
	"github.com/6z6z6z6z/flag-guard-system/internal/repository"
)

// 待办列表单类上限
const pendingItemLimit = 50

// DashboardService 仪表盘业务接口
type DashboardService interface {
	// Stats 全局计数统计
	Stats(ctx context.Context) (*dto.DashboardStatsResponse, error)
	// PendingItems 管理端待办：待审核升降旗记录 + 已结束未考勤的训练
	PendingItems(ctx context.Context) (*dto.PendingItemsResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, logger: logger}
}

func (s *dashboardService) Stats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	users, err := s.repo.User.Count(ctx)
	if err != nil {
		s.logger.Error("统计用户数失败", zap.Error(err))
		return nil, err
	}
	trainings, err := s.repo.Training.Count(ctx)
	if err != nil {
		s.logger.Error("统计训练数失败", zap.Error(err))
		return nil, err
	}
	events, err := s.repo.Event.Count(ctx)
	if err != nil {
		s.logger.Error("统计活动数失败", zap.Error(err))
		return nil, err
	}
	flags, err := s.repo.FlagRecord.Count(ctx)
	if err != nil {
		s.logger.Error("统计升降旗记录数失败", zap.Error(err))
		return nil, err
	}

	return &dto.DashboardStatsResponse{
		TotalUsers:       users,
		TotalTrainings:   trainings,
		TotalEvents:      events,
		TotalFlagRecords: flags,
	}, nil
}

func (s *dashboardService) PendingItems(ctx context.Context) (*dto.PendingItemsResponse, error) {
	records, err := s.repo.FlagRecord.ListPending(ctx, pendingItemLimit)
	if err != nil {
		s.logger.Error("查询待审核记录失败", zap.Error(err))
		return nil, err
	}

	trainings, err := s.repo.Training.ListEndedWithoutAward(ctx, time.Now())
	if err != nil {
		s.logger.Error("查询待考勤训练失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.PendingItemsResponse{
		PendingFlagRecords: make([]dto.FlagRecordResponse, 0, len(records)),
		PendingTrainings:   make([]dto.TrainingResponse, 0, len(trainings)),
	}
	for i := range records {
		resp.PendingFlagRecords = append(resp.PendingFlagRecords, dto.NewFlagRecordResponse(&records[i]))
	}
	for i := range trainings {
		resp.PendingTrainings = append(resp.PendingTrainings, dto.NewTrainingResponse(&trainings[i], false))
	}
	return resp, nil
}
