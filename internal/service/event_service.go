package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/6z6z6z6z/flag-guard-system/internal/dto"
	"github.com/6z6z6z6z/flag-guard-system/internal/model"
	"github.com/6z6z6z6z/flag-guard-system/internal/repository"
	"github.com/6z6z6z6z/flag-guard-system/pkg/timeutil"
)

// ── 活动模块业务错误 ──

var (
	ErrEventNotFound         = errors.New("活动不存在")
	ErrEventEnded            = errors.New("活动已结束")
	ErrEventAlreadyRegister  = errors.New("已报名该活动")
	ErrEventNotRegistered    = errors.New("未报名该活动")
	ErrLinkedTrainingMissing = errors.New("关联的训练不存在")
)

// EventService 活动业务接口
type EventService interface {
	// Create 创建活动，可同时关联若干训练
	Create(ctx context.Context, operatorID string, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	Get(ctx context.Context, eventID, userID string) (*dto.EventResponse, error)
	List(ctx context.Context, req *dto.EventListRequest, userID string) ([]dto.EventResponse, int64, error)
	// Update 更新活动；已过期活动不可修改
	Update(ctx context.Context, eventID string, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	// Delete 删除活动及其报名与训练关联（单事务）
	Delete(ctx context.Context, eventID string) error
	// Register 报名活动；now >= time 时拒绝
	Register(ctx context.Context, eventID, userID string) error
	CancelRegistration(ctx context.Context, eventID, userID string) error
	// MyRegistrations 我的活动参与记录（按报名时间倒序）
	MyRegistrations(ctx context.Context, userID string, req *dto.EventListRequest) ([]dto.MyEventRecordResponse, int64, error)
	// Registrations 报名名单（管理员，含身体数据）
	Registrations(ctx context.Context, eventID string) ([]dto.EventRegistrationResponse, error)
}

type eventService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEventService 创建 EventService 实例
func NewEventService(repo *repository.Repository, logger *zap.Logger) EventService {
	return &eventService{repo: repo, logger: logger}
}

func (s *eventService) Create(ctx context.Context, operatorID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	t, err := timeutil.ParseDateTime(req.Time)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}

	trainings, err := s.loadTrainings(ctx, req.TrainingIDs)
	if err != nil {
		return nil, err
	}

	event := &model.Event{
		Name:            req.Name,
		Time:            t,
		Location:        req.Location,
		UniformRequired: req.UniformRequired,
		CreatedBy:       &operatorID,
	}
	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.logger.Error("创建活动失败", zap.Error(err))
		return nil, err
	}
	if len(trainings) > 0 {
		if err := s.repo.Event.ReplaceTrainings(ctx, event, trainings); err != nil {
			s.logger.Error("关联训练失败", zap.Error(err))
			return nil, err
		}
		event.Trainings = trainings
	}

	s.logger.Info("创建活动",
		zap.String("operator_id", operatorID),
		zap.String("event_id", event.EventID),
		zap.String("name", event.Name))

	resp := dto.NewEventResponse(event, time.Now(), false)
	return &resp, nil
}

func (s *eventService) Get(ctx context.Context, eventID, userID string) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.Error(err))
		return nil, err
	}

	registered := false
	if userID != "" {
		if _, err := s.repo.EventRegistration.GetByEventAndUser(ctx, eventID, userID); err == nil {
			registered = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询报名状态失败", zap.Error(err))
			return nil, err
		}
	}

	resp := dto.NewEventResponse(event, time.Now(), registered)
	return &resp, nil
}

func (s *eventService) List(ctx context.Context, req *dto.EventListRequest, userID string) ([]dto.EventResponse, int64, error) {
	events, total, err := s.repo.Event.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询活动列表失败", zap.Error(err))
		return nil, 0, err
	}

	registeredSet := make(map[string]bool)
	if userID != "" {
		ids, err := s.repo.EventRegistration.ListEventIDsByUser(ctx, userID)
		if err != nil {
			s.logger.Error("查询用户报名集合失败", zap.Error(err))
			return nil, 0, err
		}
		for _, id := range ids {
			registeredSet[id] = true
		}
	}

	now := time.Now()
	list := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		list = append(list, dto.NewEventResponse(&events[i], now, registeredSet[events[i].EventID]))
	}
	return list, total, nil
}

func (s *eventService) Update(ctx context.Context, eventID string, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.Error(err))
		return nil, err
	}

	// 已过期活动不再接受修改
	if event.Expired(time.Now()) {
		return nil, ErrEventEnded
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Time != nil {
		t, err := timeutil.ParseDateTime(*req.Time)
		if err != nil {
			return nil, ErrInvalidTimeFormat
		}
		event.Time = t
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.UniformRequired != nil {
		event.UniformRequired = *req.UniformRequired
	}

	if err := s.repo.Event.Update(ctx, event); err != nil {
		s.logger.Error("更新活动失败", zap.Error(err))
		return nil, err
	}

	if req.TrainingIDs != nil {
		trainings, err := s.loadTrainings(ctx, req.TrainingIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Event.ReplaceTrainings(ctx, event, trainings); err != nil {
			s.logger.Error("更新训练关联失败", zap.Error(err))
			return nil, err
		}
		event.Trainings = trainings
	}

	resp := dto.NewEventResponse(event, time.Now(), false)
	return &resp, nil
}

func (s *eventService) Delete(ctx context.Context, eventID string) error {
	if _, err := s.repo.Event.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.Error(err))
		return err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	txRepo := s.repo.WithTx(tx)

	steps := []func() error{
		func() error { return txRepo.EventRegistration.DeleteByEvent(ctx, eventID) },
		func() error { return txRepo.Event.DeleteTrainingLinks(ctx, eventID) },
		func() error { return txRepo.Event.Delete(ctx, eventID) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("删除活动失败，事务回滚",
				zap.String("event_id", eventID), zap.Error(err))
			return err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}

	s.logger.Info("删除活动", zap.String("event_id", eventID))
	return nil
}

func (s *eventService) Register(ctx context.Context, eventID, userID string) error {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.Error(err))
		return err
	}

	if event.Expired(time.Now()) {
		return ErrEventEnded
	}

	if _, err := s.repo.EventRegistration.GetByEventAndUser(ctx, eventID, userID); err == nil {
		return ErrEventAlreadyRegister
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询报名记录失败", zap.Error(err))
		return err
	}

	reg := &model.EventRegistration{
		EventID: eventID,
		UserID:  userID,
		Status:  model.RegistrationStatusRegistered,
	}
	if err := s.repo.EventRegistration.Create(ctx, reg); err != nil {
		// 并发报名时读检查可能漏判，由唯一约束兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEventAlreadyRegister
		}
		s.logger.Error("创建报名记录失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *eventService) CancelRegistration(ctx context.Context, eventID, userID string) error {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.Error(err))
		return err
	}
	if event.Expired(time.Now()) {
		return ErrEventEnded
	}

	reg, err := s.repo.EventRegistration.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotRegistered
		}
		s.logger.Error("查询报名记录失败", zap.Error(err))
		return err
	}
	// 仅 registered 状态可取消
	if reg.Status != model.RegistrationStatusRegistered {
		return ErrEventNotRegistered
	}

	return s.repo.EventRegistration.Delete(ctx, reg.RegistrationID)
}

func (s *eventService) MyRegistrations(ctx context.Context, userID string, req *dto.EventListRequest) ([]dto.MyEventRecordResponse, int64, error) {
	regs, total, err := s.repo.EventRegistration.ListByUser(ctx, userID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询我的活动记录失败", zap.Error(err))
		return nil, 0, err
	}

	now := time.Now()
	list := make([]dto.MyEventRecordResponse, 0, len(regs))
	for i := range regs {
		list = append(list, dto.NewMyEventRecordResponse(&regs[i], now))
	}
	return list, total, nil
}

func (s *eventService) Registrations(ctx context.Context, eventID string) ([]dto.EventRegistrationResponse, error) {
	if _, err := s.repo.Event.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.Error(err))
		return nil, err
	}

	regs, err := s.repo.EventRegistration.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("查询报名名单失败", zap.Error(err))
		return nil, err
	}

	list := make([]dto.EventRegistrationResponse, 0, len(regs))
	for i := range regs {
		list = append(list, dto.NewEventRegistrationResponse(&regs[i]))
	}
	return list, nil
}

// ── 内部辅助方法 ──

func (s *eventService) loadTrainings(ctx context.Context, ids []string) ([]model.Training, error) {
	trainings := make([]model.Training, 0, len(ids))
	for _, id := range ids {
		training, err := s.repo.Training.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrLinkedTrainingMissing
			}
			s.logger.Error("查询训练失败", zap.Error(err))
			return nil, err
		}
		trainings = append(trainings, *training)
	}
	return trainings, nil
}
