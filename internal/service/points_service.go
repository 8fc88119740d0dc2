package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/6z6z6z6z/flag-guard-system/internal/dto"
	"github.com/6z6z6z6z/flag-guard-system/internal/model"
	"github.com/6z6z6z6z/flag-guard-system/internal/repository"
	"github.com/6z6z6z6z/flag-guard-system/pkg/timeutil"
)

// ── 积分模块业务错误 ──

var (
	ErrZeroPointsChange   = errors.New("积分变动不能为零")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// PointsService 积分业务接口
//
// 设计说明：
//   - point_history 是积分的唯一事实源，只追加不修改
//   - users.total_points 仅作列表展示缓存，统计端点一律用 SUM 重算
//   - 所有变动通过 applyPointsTx 在单事务内完成（历史行 + 缓存原子累加）
type PointsService interface {
	History(ctx context.Context, userID string, req *dto.PointHistoryListRequest) ([]dto.PointHistoryResponse, int64, error)
	// AllHistory 管理端全量台账
	AllHistory(ctx context.Context, req *dto.AllPointHistoryRequest) ([]dto.PointHistoryResponse, int64, error)
	// Statistics 个人积分统计（总分/本月/上月，均按历史表重算）
	Statistics(ctx context.Context, userID string) (*dto.PointStatisticsResponse, error)
	// Adjust 管理员手动调整积分，delta 可为负，允许总分为负
	Adjust(ctx context.Context, operatorID string, req *dto.AdjustPointsRequest) error
	// Reconcile 重算全部用户的积分缓存，修复漂移
	Reconcile(ctx context.Context) (*dto.ReconcileResponse, error)
	// ExportLedger 导出全量积分台账为 Excel
	ExportLedger(ctx context.Context) (*bytes.Buffer, string, error)
}

type pointsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPointsService 创建 PointsService 实例
func NewPointsService(repo *repository.Repository, logger *zap.Logger) PointsService {
	return &pointsService{repo: repo, logger: logger}
}

// applyPointsTx 在事务内记一笔积分变动：追加历史行 + 原子更新缓存列。
// txRepo 必须是 Repository.WithTx 返回的事务绑定实例，调用方负责提交或回滚。
func applyPointsTx(ctx context.Context, txRepo *repository.Repository, userID string, points float64, changeType string, relatedID *string, description string) error {
	history := &model.PointHistory{
		UserID:       userID,
		PointsChange: points,
		ChangeType:   changeType,
		RelatedID:    relatedID,
		Description:  description,
		ChangeTime:   time.Now().UTC(),
	}
	if err := txRepo.PointHistory.Create(ctx, history); err != nil {
		return err
	}
	return txRepo.User.AddTotalPoints(ctx, userID, points)
}

func (s *pointsService) History(ctx context.Context, userID string, req *dto.PointHistoryListRequest) ([]dto.PointHistoryResponse, int64, error) {
	items, total, err := s.repo.PointHistory.ListByUser(ctx, userID, req.ChangeType, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询积分历史失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.PointHistoryResponse, 0, len(items))
	for i := range items {
		list = append(list, dto.NewPointHistoryResponse(&items[i]))
	}
	return list, total, nil
}

func (s *pointsService) AllHistory(ctx context.Context, req *dto.AllPointHistoryRequest) ([]dto.PointHistoryResponse, int64, error) {
	items, total, err := s.repo.PointHistory.ListAll(ctx, req.Keyword, req.ChangeType, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询积分台账失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.PointHistoryResponse, 0, len(items))
	for i := range items {
		list = append(list, dto.NewPointHistoryResponse(&items[i]))
	}
	return list, total, nil
}

func (s *pointsService) Statistics(ctx context.Context, userID string) (*dto.PointStatisticsResponse, error) {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	total, err := s.repo.PointHistory.SumByUser(ctx, userID)
	if err != nil {
		s.logger.Error("统计总积分失败", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	thisStart, thisEnd := timeutil.MonthWindow(now)
	thisMonth, err := s.repo.PointHistory.SumByUserBetween(ctx, userID, thisStart, thisEnd)
	if err != nil {
		s.logger.Error("统计本月积分失败", zap.Error(err))
		return nil, err
	}

	lastStart, lastEnd := timeutil.PrevMonthWindow(now)
	lastMonth, err := s.repo.PointHistory.SumByUserBetween(ctx, userID, lastStart, lastEnd)
	if err != nil {
		s.logger.Error("统计上月积分失败", zap.Error(err))
		return nil, err
	}

	return &dto.PointStatisticsResponse{
		TotalPoints:     total,
		ThisMonthPoints: thisMonth,
		LastMonthPoints: lastMonth,
	}, nil
}

func (s *pointsService) Adjust(ctx context.Context, operatorID string, req *dto.AdjustPointsRequest) error {
	if req.Points == 0 {
		return ErrZeroPointsChange
	}

	if _, err := s.repo.User.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	txRepo := s.repo.WithTx(tx)

	if err := applyPointsTx(ctx, txRepo, req.UserID, req.Points, model.PointChangeManual, nil, req.Description); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("手动调整积分失败，事务回滚", zap.Error(err))
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}

	s.logger.Info("手动调整积分",
		zap.String("operator_id", operatorID),
		zap.String("user_id", req.UserID),
		zap.Float64("points", req.Points))
	return nil
}

func (s *pointsService) Reconcile(ctx context.Context) (*dto.ReconcileResponse, error) {
	users, err := s.repo.User.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.ReconcileResponse{}
	for i := range users {
		u := &users[i]
		resp.Checked++

		sum, err := s.repo.PointHistory.SumByUser(ctx, u.UserID)
		if err != nil {
			s.logger.Error("重算用户积分失败", zap.String("user_id", u.UserID), zap.Error(err))
			return nil, err
		}

		if math.Abs(sum-u.TotalPoints) < 1e-9 {
			continue
		}

		if err := s.repo.User.SetTotalPoints(ctx, u.UserID, sum); err != nil {
			s.logger.Error("修复积分缓存失败", zap.String("user_id", u.UserID), zap.Error(err))
			return nil, err
		}
		resp.Fixed++
		s.logger.Warn("积分缓存漂移已修复",
			zap.String("user_id", u.UserID),
			zap.Float64("cached", u.TotalPoints),
			zap.Float64("actual", sum))
	}

	return resp, nil
}

// ═══════════════════════════════════════════════════════════
// ExportLedger — 导出积分台账为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：单 Sheet，列为 姓名 / 学号 / 积分变动 / 类型 / 说明 / 时间。
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *pointsService) ExportLedger(ctx context.Context) (*bytes.Buffer, string, error) {
	items, err := s.repo.PointHistory.ListAllForExport(ctx)
	if err != nil {
		s.logger.Error("查询积分台账失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "积分台账"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 10)
	f.SetColWidth(sheetName, "D", "D", 10)
	f.SetColWidth(sheetName, "E", "E", 36)
	f.SetColWidth(sheetName, "F", "F", 20)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#C00000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"姓名", "学号", "积分变动", "类型", "说明", "时间"}
	for i, h := range headers {
		cellName, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cellName, h)
		f.SetCellStyle(sheetName, cellName, cellName, headerStyle)
	}

	typeNames := map[string]string{
		model.PointChangeFlag:     "升降旗",
		model.PointChangeTraining: "训练",
		model.PointChangeEvent:    "活动",
		model.PointChangeManual:   "手动调整",
	}

	row := 2
	for i := range items {
		h := &items[i]
		name, studentID := "", ""
		if h.User != nil {
			name = h.User.Name
			studentID = h.User.StudentID
		}
		typeName := typeNames[h.ChangeType]
		if typeName == "" {
			typeName = h.ChangeType
		}

		f.SetCellValue(sheetName, cell("A", row), name)
		f.SetCellValue(sheetName, cell("B", row), studentID)
		f.SetCellValue(sheetName, cell("C", row), h.PointsChange)
		f.SetCellValue(sheetName, cell("D", row), typeName)
		f.SetCellValue(sheetName, cell("E", row), h.Description)
		f.SetCellValue(sheetName, cell("F", row), timeutil.FormatDateTime(h.ChangeTime))
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("积分台账_%s.xlsx", time.Now().In(timeutil.BeijingZone).Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
