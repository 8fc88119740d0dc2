package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/6z6z6z6z/flag-guard-system/internal/model"
	"github.com/6z6z6z6z/flag-guard-system/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users     map[string]*model.User // key: user_id
	idCounter int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.idCounter++
		user.UserID = fmt.Sprintf("user-%d", m.idCounter)
	}
	user.CreatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByStudentID(_ context.Context, studentID string) (*model.User, error) {
	for _, u := range m.users {
		if u.StudentID == studentID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) UpdateFields(_ context.Context, id string, fields map[string]interface{}) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "college":
			u.College = v.(string)
		case "phone_number":
			if v == nil {
				u.PhoneNumber = nil
			} else {
				s := v.(string)
				u.PhoneNumber = &s
			}
		case "height":
			f := v.(float64)
			u.Height = &f
		case "weight":
			f := v.(float64)
			u.Weight = &f
		case "shoe_size":
			f := v.(float64)
			u.ShoeSize = &f
		case "role":
			u.Role = model.Role(fmt.Sprint(v))
		case "password_hash":
			u.PasswordHash = v.(string)
		}
	}
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, opts repository.UserListOptions) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if opts.Role != "" && string(u.Role) != opts.Role {
			continue
		}
		if opts.Keyword != "" {
			kw := strings.ToLower(opts.Keyword)
			if !strings.Contains(strings.ToLower(u.Username), kw) &&
				!strings.Contains(strings.ToLower(u.Name), kw) &&
				!strings.Contains(strings.ToLower(u.StudentID), kw) {
				continue
			}
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	total := int64(len(all))
	if opts.Offset >= len(all) {
		return nil, total, nil
	}
	end := opts.Offset + opts.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[opts.Offset:end], total, nil
}

func (m *mockUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var all []model.User
	for _, u := range m.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	return all, nil
}

func (m *mockUserRepo) Search(_ context.Context, query string, limit int) ([]model.User, error) {
	var result []model.User
	kw := strings.ToLower(query)
	for _, u := range m.users {
		if strings.Contains(strings.ToLower(u.Name), kw) || strings.Contains(strings.ToLower(u.StudentID), kw) {
			result = append(result, *u)
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *mockUserRepo) CountByRole(_ context.Context, role model.Role) (int64, error) {
	var count int64
	for _, u := range m.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

func (m *mockUserRepo) AddTotalPoints(_ context.Context, id string, delta float64) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.TotalPoints += delta
	return nil
}

func (m *mockUserRepo) SetTotalPoints(_ context.Context, id string, value float64) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.TotalPoints = value
	return nil
}

// ── Mock TrainingRepository ──

type mockTrainingRepo struct {
	trainings map[string]*model.Training
	regs      *mockTrainingRegistrationRepo // ListEndedWithoutAward 需要查报名
	idCounter int
}

func newMockTrainingRepo() *mockTrainingRepo {
	return &mockTrainingRepo{trainings: make(map[string]*model.Training)}
}

func (m *mockTrainingRepo) Create(_ context.Context, training *model.Training) error {
	if training.TrainingID == "" {
		m.idCounter++
		training.TrainingID = fmt.Sprintf("training-%d", m.idCounter)
	}
	training.CreatedAt = time.Now()
	m.trainings[training.TrainingID] = training
	return nil
}

func (m *mockTrainingRepo) GetByID(_ context.Context, id string) (*model.Training, error) {
	if t, ok := m.trainings[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTrainingRepo) Update(_ context.Context, training *model.Training) error {
	if _, ok := m.trainings[training.TrainingID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.trainings[training.TrainingID] = training
	return nil
}

func (m *mockTrainingRepo) Delete(_ context.Context, id string) error {
	delete(m.trainings, id)
	return nil
}

func (m *mockTrainingRepo) List(_ context.Context, offset, limit int, onlyActive bool, now time.Time) ([]model.Training, int64, error) {
	var all []model.Training
	for _, t := range m.trainings {
		if onlyActive {
			if t.Status != model.TrainingStatusScheduled || !now.Before(t.EndTime) {
				continue
			}
		}
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].TrainingID < all[j].TrainingID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockTrainingRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.trainings)), nil
}

func (m *mockTrainingRepo) ListEndedWithoutAward(_ context.Context, now time.Time) ([]model.Training, error) {
	var result []model.Training
	for _, t := range m.trainings {
		if now.Before(t.EndTime) || t.Status == model.TrainingStatusCancelled {
			continue
		}
		awarded := false
		if m.regs != nil {
			for _, reg := range m.regs.regs {
				if reg.TrainingID == t.TrainingID && reg.Status == model.RegistrationStatusAwarded {
					awarded = true
					break
				}
			}
		}
		if !awarded {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TrainingID < result[j].TrainingID })
	return result, nil
}

func (m *mockTrainingRepo) DeleteEventLinks(_ context.Context, _ string) error {
	return nil
}

// ── Mock TrainingRegistrationRepository ──

type mockTrainingRegistrationRepo struct {
	regs      map[string]*model.TrainingRegistration
	users     *mockUserRepo     // ListByTraining 预加载用户
	trainings *mockTrainingRepo // ListByUser 预加载训练
	idCounter int
}

func newMockTrainingRegistrationRepo() *mockTrainingRegistrationRepo {
	return &mockTrainingRegistrationRepo{regs: make(map[string]*model.TrainingRegistration)}
}

func (m *mockTrainingRegistrationRepo) Create(_ context.Context, reg *model.TrainingRegistration) error {
	for _, r := range m.regs {
		if r.TrainingID == reg.TrainingID && r.UserID == reg.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	if reg.RegistrationID == "" {
		m.idCounter++
		reg.RegistrationID = fmt.Sprintf("treg-%d", m.idCounter)
	}
	reg.CreatedAt = time.Now()
	m.regs[reg.RegistrationID] = reg
	return nil
}

func (m *mockTrainingRegistrationRepo) GetByTrainingAndUser(_ context.Context, trainingID, userID string) (*model.TrainingRegistration, error) {
	for _, r := range m.regs {
		if r.TrainingID == trainingID && r.UserID == userID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTrainingRegistrationRepo) Update(_ context.Context, reg *model.TrainingRegistration) error {
	if _, ok := m.regs[reg.RegistrationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.regs[reg.RegistrationID] = reg
	return nil
}

func (m *mockTrainingRegistrationRepo) Delete(_ context.Context, registrationID string) error {
	if _, ok := m.regs[registrationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.regs, registrationID)
	return nil
}

func (m *mockTrainingRegistrationRepo) ListByTraining(_ context.Context, trainingID string) ([]model.TrainingRegistration, error) {
	var result []model.TrainingRegistration
	for _, r := range m.regs {
		if r.TrainingID == trainingID {
			cp := *r
			if m.users != nil {
				if u, ok := m.users.users[r.UserID]; ok {
					cp.User = u
				}
			}
			result = append(result, cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RegistrationID < result[j].RegistrationID })
	return result, nil
}

func (m *mockTrainingRegistrationRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]model.TrainingRegistration, int64, error) {
	var all []model.TrainingRegistration
	for _, r := range m.regs {
		if r.UserID == userID {
			cp := *r
			if m.trainings != nil {
				if t, ok := m.trainings.trainings[r.TrainingID]; ok {
					cp.Training = t
				}
			}
			all = append(all, cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].RegistrationID < all[j].RegistrationID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockTrainingRegistrationRepo) ListTrainingIDsByUser(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for _, r := range m.regs {
		if r.UserID == userID {
			ids = append(ids, r.TrainingID)
		}
	}
	return ids, nil
}

func (m *mockTrainingRegistrationRepo) ExistsAwarded(_ context.Context, trainingID string) (bool, error) {
	for _, r := range m.regs {
		if r.TrainingID == trainingID && r.Status == model.RegistrationStatusAwarded {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTrainingRegistrationRepo) DeleteByTraining(_ context.Context, trainingID string) error {
	for id, r := range m.regs {
		if r.TrainingID == trainingID {
			delete(m.regs, id)
		}
	}
	return nil
}

func (m *mockTrainingRegistrationRepo) DeleteByUser(_ context.Context, userID string) error {
	for id, r := range m.regs {
		if r.UserID == userID {
			delete(m.regs, id)
		}
	}
	return nil
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events    map[string]*model.Event
	idCounter int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string]*model.Event)}
}

func (m *mockEventRepo) Create(_ context.Context, event *model.Event) error {
	if event.EventID == "" {
		m.idCounter++
		event.EventID = fmt.Sprintf("event-%d", m.idCounter)
	}
	event.CreatedAt = time.Now()
	m.events[event.EventID] = event
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.Event, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) Update(_ context.Context, event *model.Event) error {
	old, ok := m.events[event.EventID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	// Omit("Trainings")：关联关系由 ReplaceTrainings 单独维护
	event.Trainings = old.Trainings
	m.events[event.EventID] = event
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string) error {
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) List(_ context.Context, offset, limit int) ([]model.Event, int64, error) {
	var all []model.Event
	for _, e := range m.events {
		all = append(all, *e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].EventID < all[j].EventID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockEventRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.events)), nil
}

func (m *mockEventRepo) ReplaceTrainings(_ context.Context, event *model.Event, trainings []model.Training) error {
	if e, ok := m.events[event.EventID]; ok {
		e.Trainings = trainings
	}
	event.Trainings = trainings
	return nil
}

func (m *mockEventRepo) DeleteTrainingLinks(_ context.Context, eventID string) error {
	if e, ok := m.events[eventID]; ok {
		e.Trainings = nil
	}
	return nil
}

// ── Mock EventRegistrationRepository ──

type mockEventRegistrationRepo struct {
	regs      map[string]*model.EventRegistration
	users     *mockUserRepo
	events    *mockEventRepo // ListByUser 预加载活动
	idCounter int
}

func newMockEventRegistrationRepo() *mockEventRegistrationRepo {
	return &mockEventRegistrationRepo{regs: make(map[string]*model.EventRegistration)}
}

func (m *mockEventRegistrationRepo) Create(_ context.Context, reg *model.EventRegistration) error {
	for _, r := range m.regs {
		if r.EventID == reg.EventID && r.UserID == reg.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	if reg.RegistrationID == "" {
		m.idCounter++
		reg.RegistrationID = fmt.Sprintf("ereg-%d", m.idCounter)
	}
	reg.CreatedAt = time.Now()
	m.regs[reg.RegistrationID] = reg
	return nil
}

func (m *mockEventRegistrationRepo) GetByEventAndUser(_ context.Context, eventID, userID string) (*model.EventRegistration, error) {
	for _, r := range m.regs {
		if r.EventID == eventID && r.UserID == userID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRegistrationRepo) Delete(_ context.Context, registrationID string) error {
	if _, ok := m.regs[registrationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.regs, registrationID)
	return nil
}

func (m *mockEventRegistrationRepo) ListByEvent(_ context.Context, eventID string) ([]model.EventRegistration, error) {
	var result []model.EventRegistration
	for _, r := range m.regs {
		if r.EventID == eventID {
			cp := *r
			if m.users != nil {
				if u, ok := m.users.users[r.UserID]; ok {
					cp.User = u
				}
			}
			result = append(result, cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RegistrationID < result[j].RegistrationID })
	return result, nil
}

func (m *mockEventRegistrationRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]model.EventRegistration, int64, error) {
	var all []model.EventRegistration
	for _, r := range m.regs {
		if r.UserID == userID {
			cp := *r
			if m.events != nil {
				if e, ok := m.events.events[r.EventID]; ok {
					cp.Event = e
				}
			}
			all = append(all, cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].RegistrationID < all[j].RegistrationID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockEventRegistrationRepo) ListEventIDsByUser(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for _, r := range m.regs {
		if r.UserID == userID {
			ids = append(ids, r.EventID)
		}
	}
	return ids, nil
}

func (m *mockEventRegistrationRepo) DeleteByEvent(_ context.Context, eventID string) error {
	for id, r := range m.regs {
		if r.EventID == eventID {
			delete(m.regs, id)
		}
	}
	return nil
}

func (m *mockEventRegistrationRepo) DeleteByUser(_ context.Context, userID string) error {
	for id, r := range m.regs {
		if r.UserID == userID {
			delete(m.regs, id)
		}
	}
	return nil
}

// ── Mock FlagRecordRepository ──

type mockFlagRecordRepo struct {
	records   map[string]*model.FlagRecord
	users     *mockUserRepo
	idCounter int
}

func newMockFlagRecordRepo() *mockFlagRecordRepo {
	return &mockFlagRecordRepo{records: make(map[string]*model.FlagRecord)}
}

func (m *mockFlagRecordRepo) Create(_ context.Context, record *model.FlagRecord) error {
	if record.RecordID == "" {
		m.idCounter++
		record.RecordID = fmt.Sprintf("flag-%d", m.idCounter)
	}
	if record.Status == "" {
		record.Status = model.FlagStatusPending
	}
	record.CreatedAt = time.Now()
	m.records[record.RecordID] = record
	return nil
}

func (m *mockFlagRecordRepo) GetByID(_ context.Context, id string) (*model.FlagRecord, error) {
	if r, ok := m.records[id]; ok {
		cp := *r
		if m.users != nil {
			if u, ok := m.users.users[r.UserID]; ok {
				cp.User = u
			}
			if r.ReviewerID != nil {
				if u, ok := m.users.users[*r.ReviewerID]; ok {
					cp.Reviewer = u
				}
			}
		}
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFlagRecordRepo) ListByUser(_ context.Context, userID, status string, offset, limit int) ([]model.FlagRecord, int64, error) {
	var all []model.FlagRecord
	for _, r := range m.records {
		if r.UserID != userID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		all = append(all, *r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].RecordID < all[j].RecordID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockFlagRecordRepo) ListAll(_ context.Context, status string, offset, limit int) ([]model.FlagRecord, int64, error) {
	var all []model.FlagRecord
	for _, r := range m.records {
		if status != "" && r.Status != status {
			continue
		}
		cp := *r
		if m.users != nil {
			if u, ok := m.users.users[r.UserID]; ok {
				cp.User = u
			}
		}
		all = append(all, cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].RecordID < all[j].RecordID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockFlagRecordRepo) ListPending(_ context.Context, limit int) ([]model.FlagRecord, error) {
	var result []model.FlagRecord
	for _, r := range m.records {
		if r.Status == model.FlagStatusPending {
			result = append(result, *r)
			if len(result) >= limit {
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RecordID < result[j].RecordID })
	return result, nil
}

func (m *mockFlagRecordRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.records)), nil
}

func (m *mockFlagRecordRepo) MarkReviewed(_ context.Context, recordID, status, reviewerID string, reviewedAt time.Time, points float64) (int64, error) {
	r, ok := m.records[recordID]
	if !ok || r.Status != model.FlagStatusPending {
		return 0, nil
	}
	r.Status = status
	r.ReviewerID = &reviewerID
	r.ReviewedAt = &reviewedAt
	r.PointsAwarded = points
	return 1, nil
}

func (m *mockFlagRecordRepo) DeleteByUser(_ context.Context, userID string) error {
	for id, r := range m.records {
		if r.UserID == userID {
			delete(m.records, id)
		}
	}
	return nil
}

// ── Mock PointHistoryRepository ──

type mockPointHistoryRepo struct {
	rows      []model.PointHistory
	users     *mockUserRepo
	idCounter int
}

func newMockPointHistoryRepo() *mockPointHistoryRepo {
	return &mockPointHistoryRepo{}
}

func (m *mockPointHistoryRepo) Create(_ context.Context, history *model.PointHistory) error {
	if history.HistoryID == "" {
		m.idCounter++
		history.HistoryID = fmt.Sprintf("hist-%d", m.idCounter)
	}
	if history.ChangeTime.IsZero() {
		history.ChangeTime = time.Now().UTC()
	}
	m.rows = append(m.rows, *history)
	return nil
}

func (m *mockPointHistoryRepo) ListByUser(_ context.Context, userID, changeType string, offset, limit int) ([]model.PointHistory, int64, error) {
	var all []model.PointHistory
	for _, h := range m.rows {
		if h.UserID != userID {
			continue
		}
		if changeType != "" && h.ChangeType != changeType {
			continue
		}
		all = append(all, h)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockPointHistoryRepo) ListAll(_ context.Context, keyword, changeType string, offset, limit int) ([]model.PointHistory, int64, error) {
	var all []model.PointHistory
	for _, h := range m.rows {
		if changeType != "" && h.ChangeType != changeType {
			continue
		}
		if keyword != "" && m.users != nil {
			u, ok := m.users.users[h.UserID]
			if !ok || (!strings.Contains(u.Name, keyword) && !strings.Contains(u.StudentID, keyword)) {
				continue
			}
		}
		all = append(all, h)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockPointHistoryRepo) ListAllForExport(_ context.Context) ([]model.PointHistory, error) {
	result := make([]model.PointHistory, len(m.rows))
	copy(result, m.rows)
	if m.users != nil {
		for i := range result {
			if u, ok := m.users.users[result[i].UserID]; ok {
				result[i].User = u
			}
		}
	}
	return result, nil
}

func (m *mockPointHistoryRepo) SumByUser(_ context.Context, userID string) (float64, error) {
	var sum float64
	for _, h := range m.rows {
		if h.UserID == userID {
			sum += h.PointsChange
		}
	}
	return sum, nil
}

func (m *mockPointHistoryRepo) SumByUserBetween(_ context.Context, userID string, start, end time.Time) (float64, error) {
	var sum float64
	for _, h := range m.rows {
		if h.UserID == userID && !h.ChangeTime.Before(start) && h.ChangeTime.Before(end) {
			sum += h.PointsChange
		}
	}
	return sum, nil
}

func (m *mockPointHistoryRepo) DeleteByUser(_ context.Context, userID string) error {
	var remaining []model.PointHistory
	for _, h := range m.rows {
		if h.UserID != userID {
			remaining = append(remaining, h)
		}
	}
	m.rows = remaining
	return nil
}

// ── 聚合装配 ──

// mockRepos 装配全部 mock 并互相接线（预加载、子查询需要跨仓访问）
type mockRepos struct {
	User                 *mockUserRepo
	Training             *mockTrainingRepo
	TrainingRegistration *mockTrainingRegistrationRepo
	Event                *mockEventRepo
	EventRegistration    *mockEventRegistrationRepo
	FlagRecord           *mockFlagRecordRepo
	PointHistory         *mockPointHistoryRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		User:                 newMockUserRepo(),
		Training:             newMockTrainingRepo(),
		TrainingRegistration: newMockTrainingRegistrationRepo(),
		Event:                newMockEventRepo(),
		EventRegistration:    newMockEventRegistrationRepo(),
		FlagRecord:           newMockFlagRecordRepo(),
		PointHistory:         newMockPointHistoryRepo(),
	}
	m.Training.regs = m.TrainingRegistration
	m.TrainingRegistration.users = m.User
	m.TrainingRegistration.trainings = m.Training
	m.EventRegistration.users = m.User
	m.EventRegistration.events = m.Event
	m.FlagRecord.users = m.User
	m.PointHistory.users = m.User

	repo := &repository.Repository{
		User:                 m.User,
		Training:             m.Training,
		TrainingRegistration: m.TrainingRegistration,
		Event:                m.Event,
		EventRegistration:    m.EventRegistration,
		FlagRecord:           m.FlagRecord,
		PointHistory:         m.PointHistory,
	}
	return repo, m
}
