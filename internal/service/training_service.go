package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/6z6z6z6z/flag-guard-system/internal/dto"
	"github.com/6z6z6z6z/flag-guard-system/internal/model"
	"github.com/6z6z6z6z/flag-guard-system/internal/repository"
	"github.com/6z6z6z6z/flag-guard-system/pkg/timeutil"
)

// ── 训练模块业务错误 ──

var (
	ErrTrainingNotFound   = errors.New("训练不存在")
	ErrInvalidTimeFormat  = errors.New("时间格式不正确，应为 YYYY-MM-DD HH:MM:SS")
	ErrInvalidTimeRange   = errors.New("结束时间必须晚于开始时间")
	ErrTrainingEnded      = errors.New("训练已结束")
	ErrTrainingCancelled  = errors.New("训练已取消")
	ErrAlreadyRegistered  = errors.New("已报名该训练")
	ErrNotRegistered      = errors.New("未报名该训练")
	ErrAttendanceReviewed = errors.New("该训练考勤已审核，不能重复提交")
)

// TrainingService 训练业务接口
type TrainingService interface {
	Create(ctx context.Context, operatorID string, req *dto.CreateTrainingRequest) (*dto.TrainingResponse, error)
	Get(ctx context.Context, trainingID, userID string) (*dto.TrainingResponse, error)
	// List 训练列表；非管理员仅见未结束的训练
	List(ctx context.Context, req *dto.TrainingListRequest, userID string, isAdmin bool) ([]dto.TrainingResponse, int64, error)
	Update(ctx context.Context, trainingID string, req *dto.UpdateTrainingRequest) (*dto.TrainingResponse, error)
	// Delete 删除训练及其报名与活动关联（单事务）
	Delete(ctx context.Context, trainingID string) error
	// Register 报名训练；now >= end_time 时拒绝
	Register(ctx context.Context, trainingID, userID string) error
	CancelRegistration(ctx context.Context, trainingID, userID string) error
	// MyRegistrations 我的训练参与记录（含考勤结果，按报名时间倒序）
	MyRegistrations(ctx context.Context, userID string, req *dto.TrainingListRequest) ([]dto.MyTrainingRecordResponse, int64, error)
	// Registrations 报名名单（管理员）
	Registrations(ctx context.Context, trainingID string) ([]dto.TrainingRegistrationResponse, error)
	// SubmitAttendance 批量提交考勤并发分；训练已有发分记录时整体拒绝
	SubmitAttendance(ctx context.Context, trainingID, operatorID string, req *dto.SubmitAttendanceRequest) (*dto.AttendanceResultResponse, error)
}

type trainingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTrainingService 创建 TrainingService 实例
func NewTrainingService(repo *repository.Repository, logger *zap.Logger) TrainingService {
	return &trainingService{repo: repo, logger: logger}
}

func (s *trainingService) Create(ctx context.Context, operatorID string, req *dto.CreateTrainingRequest) (*dto.TrainingResponse, error) {
	start, err := timeutil.ParseDateTime(req.StartTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	end, err := timeutil.ParseDateTime(req.EndTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	if !end.After(start) {
		return nil, ErrInvalidTimeRange
	}

	training := &model.Training{
		Name:      req.Name,
		StartTime: start,
		EndTime:   end,
		Points:    req.Points,
		Location:  req.Location,
		Status:    model.TrainingStatusScheduled,
		CreatedBy: &operatorID,
	}
	if err := s.repo.Training.Create(ctx, training); err != nil {
		s.logger.Error("创建训练失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("创建训练",
		zap.String("operator_id", operatorID),
		zap.String("training_id", training.TrainingID),
		zap.String("name", training.Name))

	resp := dto.NewTrainingResponse(training, false)
	return &resp, nil
}

func (s *trainingService) Get(ctx context.Context, trainingID, userID string) (*dto.TrainingResponse, error) {
	training, err := s.repo.Training.GetByID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainingNotFound
		}
		s.logger.Error("查询训练失败", zap.Error(err))
		return nil, err
	}

	registered := false
	if userID != "" {
		if _, err := s.repo.TrainingRegistration.GetByTrainingAndUser(ctx, trainingID, userID); err == nil {
			registered = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询报名状态失败", zap.Error(err))
			return nil, err
		}
	}

	resp := dto.NewTrainingResponse(training, registered)
	return &resp, nil
}

func (s *trainingService) List(ctx context.Context, req *dto.TrainingListRequest, userID string, isAdmin bool) ([]dto.TrainingResponse, int64, error) {
	trainings, total, err := s.repo.Training.List(ctx, req.GetOffset(), req.GetPageSize(), !isAdmin, time.Now())
	if err != nil {
		s.logger.Error("查询训练列表失败", zap.Error(err))
		return nil, 0, err
	}

	registeredSet := make(map[string]bool)
	if userID != "" {
		ids, err := s.repo.TrainingRegistration.ListTrainingIDsByUser(ctx, userID)
		if err != nil {
			s.logger.Error("查询用户报名集合失败", zap.Error(err))
			return nil, 0, err
		}
		for _, id := range ids {
			registeredSet[id] = true
		}
	}

	list := make([]dto.TrainingResponse, 0, len(trainings))
	for i := range trainings {
		list = append(list, dto.NewTrainingResponse(&trainings[i], registeredSet[trainings[i].TrainingID]))
	}
	return list, total, nil
}

func (s *trainingService) Update(ctx context.Context, trainingID string, req *dto.UpdateTrainingRequest) (*dto.TrainingResponse, error) {
	training, err := s.repo.Training.GetByID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainingNotFound
		}
		s.logger.Error("查询训练失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		training.Name = *req.Name
	}
	if req.StartTime != nil {
		start, err := timeutil.ParseDateTime(*req.StartTime)
		if err != nil {
			return nil, ErrInvalidTimeFormat
		}
		training.StartTime = start
	}
	if req.EndTime != nil {
		end, err := timeutil.ParseDateTime(*req.EndTime)
		if err != nil {
			return nil, ErrInvalidTimeFormat
		}
		training.EndTime = end
	}
	if !training.EndTime.After(training.StartTime) {
		return nil, ErrInvalidTimeRange
	}
	if req.Points != nil {
		training.Points = *req.Points
	}
	if req.Location != nil {
		training.Location = *req.Location
	}
	if req.Status != nil {
		training.Status = *req.Status
	}

	if err := s.repo.Training.Update(ctx, training); err != nil {
		s.logger.Error("更新训练失败", zap.Error(err))
		return nil, err
	}

	resp := dto.NewTrainingResponse(training, false)
	return &resp, nil
}

func (s *trainingService) Delete(ctx context.Context, trainingID string) error {
	if _, err := s.repo.Training.GetByID(ctx, trainingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTrainingNotFound
		}
		s.logger.Error("查询训练失败", zap.Error(err))
		return err
	}

	// 先删报名与活动关联，最后删训练本体
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	txRepo := s.repo.WithTx(tx)

	steps := []func() error{
		func() error { return txRepo.TrainingRegistration.DeleteByTraining(ctx, trainingID) },
		func() error { return txRepo.Training.DeleteEventLinks(ctx, trainingID) },
		func() error { return txRepo.Training.Delete(ctx, trainingID) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("删除训练失败，事务回滚",
				zap.String("training_id", trainingID), zap.Error(err))
			return err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}

	s.logger.Info("删除训练", zap.String("training_id", trainingID))
	return nil
}

func (s *trainingService) Register(ctx context.Context, trainingID, userID string) error {
	training, err := s.repo.Training.GetByID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTrainingNotFound
		}
		s.logger.Error("查询训练失败", zap.Error(err))
		return err
	}

	if training.Status == model.TrainingStatusCancelled {
		return ErrTrainingCancelled
	}
	// 到达 end_time 即视为已结束
	if !time.Now().UTC().Before(training.EndTime) {
		return ErrTrainingEnded
	}

	if _, err := s.repo.TrainingRegistration.GetByTrainingAndUser(ctx, trainingID, userID); err == nil {
		return ErrAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询报名记录失败", zap.Error(err))
		return err
	}

	reg := &model.TrainingRegistration{
		TrainingID: trainingID,
		UserID:     userID,
		Status:     model.RegistrationStatusRegistered,
	}
	if err := s.repo.TrainingRegistration.Create(ctx, reg); err != nil {
		// 并发报名时读检查可能漏判，由唯一约束兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyRegistered
		}
		s.logger.Error("创建报名记录失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *trainingService) CancelRegistration(ctx context.Context, trainingID, userID string) error {
	training, err := s.repo.Training.GetByID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTrainingNotFound
		}
		s.logger.Error("查询训练失败", zap.Error(err))
		return err
	}
	if !time.Now().UTC().Before(training.EndTime) {
		return ErrTrainingEnded
	}

	reg, err := s.repo.TrainingRegistration.GetByTrainingAndUser(ctx, trainingID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotRegistered
		}
		s.logger.Error("查询报名记录失败", zap.Error(err))
		return err
	}

	return s.repo.TrainingRegistration.Delete(ctx, reg.RegistrationID)
}

func (s *trainingService) MyRegistrations(ctx context.Context, userID string, req *dto.TrainingListRequest) ([]dto.MyTrainingRecordResponse, int64, error) {
	regs, total, err := s.repo.TrainingRegistration.ListByUser(ctx, userID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询我的训练记录失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.MyTrainingRecordResponse, 0, len(regs))
	for i := range regs {
		list = append(list, dto.NewMyTrainingRecordResponse(&regs[i]))
	}
	return list, total, nil
}

func (s *trainingService) Registrations(ctx context.Context, trainingID string) ([]dto.TrainingRegistrationResponse, error) {
	if _, err := s.repo.Training.GetByID(ctx, trainingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainingNotFound
		}
		s.logger.Error("查询训练失败", zap.Error(err))
		return nil, err
	}

	regs, err := s.repo.TrainingRegistration.ListByTraining(ctx, trainingID)
	if err != nil {
		s.logger.Error("查询报名名单失败", zap.Error(err))
		return nil, err
	}

	list := make([]dto.TrainingRegistrationResponse, 0, len(regs))
	for i := range regs {
		list = append(list, dto.NewTrainingRegistrationResponse(&regs[i]))
	}
	return list, nil
}

// ═══════════════════════════════════════════════════════════
// SubmitAttendance — 批量考勤发分
// ═══════════════════════════════════════════════════════════
//
// 规则：
//   - 训练已有任何 awarded 注册 → 整体拒绝（ErrAttendanceReviewed）
//   - 逐条处理：无报名记录的用户补建（现场参加未提前报名的情形）
//   - 积分政策：present 全额 / late、early_leave 半额 / absent 零分
//   - 每条在独立事务内完成报名更新与积分入账，零分不写历史行
//   - 单条失败记日志继续，不影响其余条目

func (s *trainingService) SubmitAttendance(ctx context.Context, trainingID, operatorID string, req *dto.SubmitAttendanceRequest) (*dto.AttendanceResultResponse, error) {
	training, err := s.repo.Training.GetByID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainingNotFound
		}
		s.logger.Error("查询训练失败", zap.Error(err))
		return nil, err
	}

	awarded, err := s.repo.TrainingRegistration.ExistsAwarded(ctx, trainingID)
	if err != nil {
		s.logger.Error("查询考勤状态失败", zap.Error(err))
		return nil, err
	}
	if awarded {
		return nil, ErrAttendanceReviewed
	}

	result := &dto.AttendanceResultResponse{}
	for _, record := range req.Records {
		if err := s.processAttendance(ctx, training, record); err != nil {
			if errors.Is(err, errAttendanceSkipped) {
				result.Skipped++
				continue
			}
			result.Failed++
			s.logger.Error("处理考勤记录失败",
				zap.String("training_id", trainingID),
				zap.String("user_id", record.UserID),
				zap.Error(err))
			continue
		}
		result.Processed++
	}

	s.logger.Info("考勤提交完成",
		zap.String("operator_id", operatorID),
		zap.String("training_id", trainingID),
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	return result, nil
}

// errAttendanceSkipped 内部标记：该报名已发过分
var errAttendanceSkipped = errors.New("registration already awarded")

func (s *trainingService) processAttendance(ctx context.Context, training *model.Training, record dto.AttendanceRecord) error {
	reg, err := s.repo.TrainingRegistration.GetByTrainingAndUser(ctx, training.TrainingID, record.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		// 未提前报名的现场参加者：补建报名记录
		reg = &model.TrainingRegistration{
			TrainingID: training.TrainingID,
			UserID:     record.UserID,
			Status:     model.RegistrationStatusRegistered,
		}
		if err := s.repo.TrainingRegistration.Create(ctx, reg); err != nil {
			return err
		}
	}

	if reg.Status == model.RegistrationStatusAwarded {
		return errAttendanceSkipped
	}

	points := attendancePoints(training.Points, record.AttendanceStatus)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	txRepo := s.repo.WithTx(tx)

	status := record.AttendanceStatus
	reg.Status = model.RegistrationStatusAwarded
	reg.AttendanceStatus = &status
	reg.PointsAwarded = points
	if err := txRepo.TrainingRegistration.Update(ctx, reg); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}

	if points > 0 {
		trainingID := training.TrainingID
		description := fmt.Sprintf("参加训练：%s", training.Name)
		if err := applyPointsTx(ctx, txRepo, record.UserID, points, model.PointChangeTraining, &trainingID, description); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			return err
		}
	}

	if tx != nil {
		return tx.Commit().Error
	}
	return nil
}

// attendancePoints 考勤积分政策
func attendancePoints(full float64, attendanceStatus string) float64 {
	switch attendanceStatus {
	case model.AttendancePresent:
		return full
	case model.AttendanceLate, model.AttendanceEarlyLeave:
		return full / 2
	default: // absent
		return 0
	}
}
