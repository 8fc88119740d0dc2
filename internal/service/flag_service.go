package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/6z6z6z6z/flag-guard-system/config"
	"github.com/6z6z6z6z/flag-guard-system/internal/dto"
	"github.com/6z6z6z6z/flag-guard-system/internal/model"
	"github.com/6z6z6z6z/flag-guard-system/internal/repository"
	"github.com/6z6z6z6z/flag-guard-system/pkg/timeutil"
)

// ── 升降旗模块业务错误 ──

var (
	ErrFlagRecordNotFound = errors.New("升降旗记录不存在")
	ErrAlreadyReviewed    = errors.New("该记录已审核")
	ErrInvalidFlagDate    = errors.New("日期格式不正确，应为 YYYY-MM-DD")
)

// FlagService 升降旗审核业务接口
//
// 状态机：pending → approved | rejected。审核通过条件更新落库
// （WHERE status='pending'），并发审核只有一个能成功。
type FlagService interface {
	Create(ctx context.Context, userID string, req *dto.CreateFlagRecordRequest) (*dto.FlagRecordResponse, error)
	// MyRecords 本人记录分页，可按状态过滤
	MyRecords(ctx context.Context, userID string, req *dto.FlagRecordListRequest) ([]dto.FlagRecordResponse, int64, error)
	// AllRecords 管理端审核列表（联申请人/审核人信息）
	AllRecords(ctx context.Context, req *dto.FlagRecordListRequest) ([]dto.FlagRecordResponse, int64, error)
	// Approve 审核通过：发放配置常量积分并写入账本（同事务）
	Approve(ctx context.Context, recordID, reviewerID string) (*dto.FlagRecordResponse, error)
	// Reject 审核拒绝：零分，不写账本行
	Reject(ctx context.Context, recordID, reviewerID string) (*dto.FlagRecordResponse, error)
}

type flagService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewFlagService 创建 FlagService 实例
func NewFlagService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) FlagService {
	return &flagService{cfg: cfg, repo: repo, logger: logger}
}

func (s *flagService) Create(ctx context.Context, userID string, req *dto.CreateFlagRecordRequest) (*dto.FlagRecordResponse, error) {
	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidFlagDate
	}

	record := &model.FlagRecord{
		UserID: userID,
		Date:   date,
		Type:   req.Type,
		Status: model.FlagStatusPending,
	}
	if req.PhotoURL != "" {
		photo := req.PhotoURL
		record.PhotoURL = &photo
	}

	if err := s.repo.FlagRecord.Create(ctx, record); err != nil {
		s.logger.Error("创建升降旗记录失败", zap.Error(err))
		return nil, err
	}

	resp := dto.NewFlagRecordResponse(record)
	return &resp, nil
}

func (s *flagService) MyRecords(ctx context.Context, userID string, req *dto.FlagRecordListRequest) ([]dto.FlagRecordResponse, int64, error) {
	records, total, err := s.repo.FlagRecord.ListByUser(ctx, userID, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询升降旗记录失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.FlagRecordResponse, 0, len(records))
	for i := range records {
		list = append(list, dto.NewFlagRecordResponse(&records[i]))
	}
	return list, total, nil
}

func (s *flagService) AllRecords(ctx context.Context, req *dto.FlagRecordListRequest) ([]dto.FlagRecordResponse, int64, error) {
	records, total, err := s.repo.FlagRecord.ListAll(ctx, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询审核列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.FlagRecordResponse, 0, len(records))
	for i := range records {
		list = append(list, dto.NewFlagRecordResponse(&records[i]))
	}
	return list, total, nil
}

func (s *flagService) Approve(ctx context.Context, recordID, reviewerID string) (*dto.FlagRecordResponse, error) {
	record, err := s.repo.FlagRecord.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlagRecordNotFound
		}
		s.logger.Error("查询升降旗记录失败", zap.Error(err))
		return nil, err
	}

	points := s.cfg.Points.FlagPoints

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	txRepo := s.repo.WithTx(tx)

	// 条件更新：status 仍为 pending 才生效，并发审核只有一个成功
	rows, err := txRepo.FlagRecord.MarkReviewed(ctx, recordID, model.FlagStatusApproved, reviewerID, time.Now().UTC(), points)
	if err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("更新审核状态失败", zap.Error(err))
		return nil, err
	}
	if rows == 0 {
		if tx != nil {
			tx.Rollback()
		}
		return nil, ErrAlreadyReviewed
	}

	if points > 0 {
		description := fmt.Sprintf("完成%s的%s任务", record.Date.Format(timeutil.DateLayout), flagTypeName(record.Type))
		if err := applyPointsTx(ctx, txRepo, record.UserID, points, model.PointChangeFlag, &record.RecordID, description); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("审核发分失败，事务回滚", zap.Error(err))
			return nil, err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("升降旗记录审核通过",
		zap.String("record_id", recordID),
		zap.String("reviewer_id", reviewerID),
		zap.Float64("points", points))

	return s.reload(ctx, recordID)
}

func (s *flagService) Reject(ctx context.Context, recordID, reviewerID string) (*dto.FlagRecordResponse, error) {
	if _, err := s.repo.FlagRecord.GetByID(ctx, recordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlagRecordNotFound
		}
		s.logger.Error("查询升降旗记录失败", zap.Error(err))
		return nil, err
	}

	rows, err := s.repo.FlagRecord.MarkReviewed(ctx, recordID, model.FlagStatusRejected, reviewerID, time.Now().UTC(), 0)
	if err != nil {
		s.logger.Error("更新审核状态失败", zap.Error(err))
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAlreadyReviewed
	}

	s.logger.Info("升降旗记录审核拒绝",
		zap.String("record_id", recordID),
		zap.String("reviewer_id", reviewerID))

	return s.reload(ctx, recordID)
}

// ── 内部辅助方法 ──

func (s *flagService) reload(ctx context.Context, recordID string) (*dto.FlagRecordResponse, error) {
	record, err := s.repo.FlagRecord.GetByID(ctx, recordID)
	if err != nil {
		s.logger.Error("重新加载记录失败", zap.Error(err))
		return nil, err
	}
	resp := dto.NewFlagRecordResponse(record)
	return &resp, nil
}

func flagTypeName(flagType string) string {
	if flagType == model.FlagTypeLower {
		return "降旗"
	}
	return "升旗"
}
