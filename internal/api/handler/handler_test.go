package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/6z6z6z6z/flag-guard-system/config"
	"github.com/6z6z6z6z/flag-guard-system/internal/dto"
	"github.com/6z6z6z6z/flag-guard-system/internal/model"
	"github.com/6z6z6z6z/flag-guard-system/internal/service"
	"github.com/6z6z6z6z/flag-guard-system/pkg/jwt"
	"github.com/6z6z6z6z/flag-guard-system/pkg/response"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult *dto.UserResponse
	registerErr    error
	loginResult    *dto.TokenResponse
	loginErr       error
	meResult       *dto.UserResponse
	meErr          error
	logoutErr      error
	refreshResult  *dto.TokenResponse
	refreshErr     error
	changePassErr  error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.UserResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.meResult, m.meErr
}
func (m *mockAuthService) Logout(_ context.Context, _ *jwt.Claims) error {
	return m.logoutErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock UserService ──

type mockUserService struct {
	profileResult *dto.UserResponse
	profileErr    error
	updateResult  *dto.UserResponse
	updateErr     error
	listResult    []dto.UserResponse
	listTotal     int64
	listErr       error
	searchResult  []dto.UserBrief
	searchErr     error
	createResult  *dto.UserResponse
	createErr     error
	deleteErr     error
	assignRoleErr error
}

func (m *mockUserService) GetProfile(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.profileResult, m.profileErr
}
func (m *mockUserService) UpdateProfile(_ context.Context, _ string, _ *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockUserService) List(_ context.Context, _ *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockUserService) Search(_ context.Context, _ string) ([]dto.UserBrief, error) {
	return m.searchResult, m.searchErr
}
func (m *mockUserService) Create(_ context.Context, _ string, _ *dto.CreateUserRequest) (*dto.UserResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockUserService) Update(_ context.Context, _ string, _ *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockUserService) Delete(_ context.Context, _, _ string) error {
	return m.deleteErr
}
func (m *mockUserService) AssignRole(_ context.Context, _, _ string, _ model.Role) error {
	return m.assignRoleErr
}

// ── Mock TrainingService ──

type mockTrainingService struct {
	createResult     *dto.TrainingResponse
	createErr        error
	getResult        *dto.TrainingResponse
	getErr           error
	listResult       []dto.TrainingResponse
	listTotal        int64
	listErr          error
	updateResult     *dto.TrainingResponse
	updateErr        error
	deleteErr        error
	registerErr      error
	cancelErr        error
	myRegsResult     []dto.MyTrainingRecordResponse
	myRegsTotal      int64
	myRegsErr        error
	regsResult       []dto.TrainingRegistrationResponse
	regsErr          error
	attendanceResult *dto.AttendanceResultResponse
	attendanceErr    error
}

func (m *mockTrainingService) Create(_ context.Context, _ string, _ *dto.CreateTrainingRequest) (*dto.TrainingResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockTrainingService) Get(_ context.Context, _, _ string) (*dto.TrainingResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockTrainingService) List(_ context.Context, _ *dto.TrainingListRequest, _ string, _ bool) ([]dto.TrainingResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockTrainingService) Update(_ context.Context, _ string, _ *dto.UpdateTrainingRequest) (*dto.TrainingResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockTrainingService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockTrainingService) Register(_ context.Context, _, _ string) error {
	return m.registerErr
}
func (m *mockTrainingService) CancelRegistration(_ context.Context, _, _ string) error {
	return m.cancelErr
}
func (m *mockTrainingService) MyRegistrations(_ context.Context, _ string, _ *dto.TrainingListRequest) ([]dto.MyTrainingRecordResponse, int64, error) {
	return m.myRegsResult, m.myRegsTotal, m.myRegsErr
}
func (m *mockTrainingService) Registrations(_ context.Context, _ string) ([]dto.TrainingRegistrationResponse, error) {
	return m.regsResult, m.regsErr
}
func (m *mockTrainingService) SubmitAttendance(_ context.Context, _, _ string, _ *dto.SubmitAttendanceRequest) (*dto.AttendanceResultResponse, error) {
	return m.attendanceResult, m.attendanceErr
}

// ── Mock EventService ──

type mockEventService struct {
	createResult *dto.EventResponse
	createErr    error
	getResult    *dto.EventResponse
	getErr       error
	listResult   []dto.EventResponse
	listTotal    int64
	listErr      error
	updateResult *dto.EventResponse
	updateErr    error
	deleteErr    error
	registerErr  error
	cancelErr    error
	myRegsResult []dto.MyEventRecordResponse
	myRegsTotal  int64
	myRegsErr    error
	regsResult   []dto.EventRegistrationResponse
	regsErr      error
}

func (m *mockEventService) Create(_ context.Context, _ string, _ *dto.CreateEventRequest) (*dto.EventResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockEventService) Get(_ context.Context, _, _ string) (*dto.EventResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockEventService) List(_ context.Context, _ *dto.EventListRequest, _ string) ([]dto.EventResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockEventService) Update(_ context.Context, _ string, _ *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockEventService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockEventService) Register(_ context.Context, _, _ string) error {
	return m.registerErr
}
func (m *mockEventService) CancelRegistration(_ context.Context, _, _ string) error {
	return m.cancelErr
}
func (m *mockEventService) MyRegistrations(_ context.Context, _ string, _ *dto.EventListRequest) ([]dto.MyEventRecordResponse, int64, error) {
	return m.myRegsResult, m.myRegsTotal, m.myRegsErr
}
func (m *mockEventService) Registrations(_ context.Context, _ string) ([]dto.EventRegistrationResponse, error) {
	return m.regsResult, m.regsErr
}

// ── Mock FlagService ──

type mockFlagService struct {
	createResult  *dto.FlagRecordResponse
	createErr     error
	myResult      []dto.FlagRecordResponse
	myTotal       int64
	myErr         error
	allResult     []dto.FlagRecordResponse
	allTotal      int64
	allErr        error
	approveResult *dto.FlagRecordResponse
	approveErr    error
	rejectResult  *dto.FlagRecordResponse
	rejectErr     error
}

func (m *mockFlagService) Create(_ context.Context, _ string, _ *dto.CreateFlagRecordRequest) (*dto.FlagRecordResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockFlagService) MyRecords(_ context.Context, _ string, _ *dto.FlagRecordListRequest) ([]dto.FlagRecordResponse, int64, error) {
	return m.myResult, m.myTotal, m.myErr
}
func (m *mockFlagService) AllRecords(_ context.Context, _ *dto.FlagRecordListRequest) ([]dto.FlagRecordResponse, int64, error) {
	return m.allResult, m.allTotal, m.allErr
}
func (m *mockFlagService) Approve(_ context.Context, _, _ string) (*dto.FlagRecordResponse, error) {
	return m.approveResult, m.approveErr
}
func (m *mockFlagService) Reject(_ context.Context, _, _ string) (*dto.FlagRecordResponse, error) {
	return m.rejectResult, m.rejectErr
}

// ── Mock PointsService ──

type mockPointsService struct {
	historyResult   []dto.PointHistoryResponse
	historyTotal    int64
	historyErr      error
	allResult       []dto.PointHistoryResponse
	allTotal        int64
	allErr          error
	statsResult     *dto.PointStatisticsResponse
	statsErr        error
	adjustErr       error
	reconcileResult *dto.ReconcileResponse
	reconcileErr    error
	exportBuf       *bytes.Buffer
	exportFilename  string
	exportErr       error
}

func (m *mockPointsService) History(_ context.Context, _ string, _ *dto.PointHistoryListRequest) ([]dto.PointHistoryResponse, int64, error) {
	return m.historyResult, m.historyTotal, m.historyErr
}
func (m *mockPointsService) AllHistory(_ context.Context, _ *dto.AllPointHistoryRequest) ([]dto.PointHistoryResponse, int64, error) {
	return m.allResult, m.allTotal, m.allErr
}
func (m *mockPointsService) Statistics(_ context.Context, _ string) (*dto.PointStatisticsResponse, error) {
	return m.statsResult, m.statsErr
}
func (m *mockPointsService) Adjust(_ context.Context, _ string, _ *dto.AdjustPointsRequest) error {
	return m.adjustErr
}
func (m *mockPointsService) Reconcile(_ context.Context) (*dto.ReconcileResponse, error) {
	return m.reconcileResult, m.reconcileErr
}
func (m *mockPointsService) ExportLedger(_ context.Context) (*bytes.Buffer, string, error) {
	return m.exportBuf, m.exportFilename, m.exportErr
}

// ── Mock DashboardService ──

type mockDashboardService struct {
	statsResult   *dto.DashboardStatsResponse
	statsErr      error
	pendingResult *dto.PendingItemsResponse
	pendingErr    error
}

func (m *mockDashboardService) Stats(_ context.Context) (*dto.DashboardStatsResponse, error) {
	return m.statsResult, m.statsErr
}
func (m *mockDashboardService) PendingItems(_ context.Context) (*dto.PendingItemsResponse, error) {
	return m.pendingResult, m.pendingErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupGin() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "admin")
	c.Set("claims", &jwt.Claims{
		UserID:    "test-user-id",
		Role:      "admin",
		TokenType: "access",
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        "test-jti",
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(2 * time.Hour)),
		},
	})
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Register_Success(t *testing.T) {
	mock := &mockAuthService{
		registerResult: &dto.UserResponse{UserID: "u-1", Username: "zhangsan", Role: "superadmin"},
	}
	h := NewAuthHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Username:  "zhangsan",
		Password:  "password123",
		Name:      "张三",
		StudentID: "AB12345678",
		College:   "信息学院",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Register_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Register_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"UsernameExists", service.ErrUsernameExists, 409, 11002},
		{"StudentIDExists", service.ErrStudentIDExists, 409, 11003},
		{"InvalidStudentID", service.ErrInvalidStudentID, 400, 11004},
		{"InvalidPhone", service.ErrInvalidPhone, 400, 11005},
		{"WeakPassword", service.ErrWeakPassword, 400, 11006},
		{"InternalError", errors.New("db down"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthService{registerErr: tt.err})

			w := setupGin()
			req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
				Username:  "zhangsan",
				Password:  "password123",
				Name:      "张三",
				StudentID: "AB12345678",
				College:   "信息学院",
			}))
			req.Header.Set("Content-Type", "application/json")

			r := gin.New()
			r.POST("/auth/register", h.Register)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    7200,
		},
	}
	h := NewAuthHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Username: "zhangsan",
		Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Username: "zhangsan",
		Password: "wrongpass1",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupGin()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.Me) // 不注入 user_id
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10002 {
		t.Errorf("expected code 10002, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		setAuth(c)
		h.Logout(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_RefreshToken_Invalid(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrTokenInvalid})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{
		RefreshToken: "stale-token",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11008 {
		t.Errorf("expected code 11008, got %d", resp.Code)
	}
}

func TestAuthHandler_ChangePassword_WrongOld(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{changePassErr: service.ErrWrongOldPassword})

	w := setupGin()
	req := httptest.NewRequest("PUT", "/auth/password", jsonBody(dto.ChangePasswordRequest{
		OldPassword: "oldpass123",
		NewPassword: "newpass123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/auth/password", func(c *gin.Context) {
		setAuth(c)
		h.ChangePassword(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11007 {
		t.Errorf("expected code 11007, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// UserHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUserHandler_DeleteUser_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrUserNotFound, 404, 12001},
		{"CannotDeleteSelf", service.ErrCannotDeleteSelf, 403, 12002},
		{"CannotDeleteSuperAdmin", service.ErrCannotDeleteSuperAdmin, 403, 12003},
		{"InternalError", errors.New("db down"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewUserHandler(&mockUserService{deleteErr: tt.err})

			w := setupGin()
			req := httptest.NewRequest("DELETE", "/users/u-2", nil)

			r := gin.New()
			r.DELETE("/users/:id", func(c *gin.Context) {
				setAuth(c)
				h.DeleteUser(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestUserHandler_AssignRole_LastSuperAdmin(t *testing.T) {
	h := NewUserHandler(&mockUserService{assignRoleErr: service.ErrLastSuperAdmin})

	w := setupGin()
	req := httptest.NewRequest("PUT", "/users/u-2/role", jsonBody(dto.AssignRoleRequest{Role: "member"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/users/:id/role", func(c *gin.Context) {
		setAuth(c)
		h.AssignRole(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12005 {
		t.Errorf("expected code 12005, got %d", resp.Code)
	}
}

func TestUserHandler_ListUsers_Pagination(t *testing.T) {
	h := NewUserHandler(&mockUserService{
		listResult: []dto.UserResponse{{UserID: "u-1"}, {UserID: "u-2"}},
		listTotal:  42,
	})

	w := setupGin()
	req := httptest.NewRequest("GET", "/users?page=2&page_size=2", nil)

	r := gin.New()
	r.GET("/users", h.ListUsers)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Code int               `json:"code"`
		Data response.PageData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Pagination.Total != 42 {
		t.Errorf("expected total 42, got %d", resp.Data.Pagination.Total)
	}
	if resp.Data.Pagination.TotalPages != 21 {
		t.Errorf("expected 21 pages, got %d", resp.Data.Pagination.TotalPages)
	}
}

func TestUserHandler_SearchUsers_MissingQuery(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	w := setupGin()
	req := httptest.NewRequest("GET", "/users/search", nil) // 缺少 q

	r := gin.New()
	r.GET("/users/search", h.SearchUsers)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// TrainingHandler Tests
// ═══════════════════════════════════════════════════════════

func TestTrainingHandler_Register_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrTrainingNotFound, 404, 13001},
		{"Ended", service.ErrTrainingEnded, 410, 13004},
		{"Cancelled", service.ErrTrainingCancelled, 410, 13008},
		{"AlreadyRegistered", service.ErrAlreadyRegistered, 409, 13005},
		{"InternalError", errors.New("db down"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTrainingHandler(&mockTrainingService{registerErr: tt.err})

			w := setupGin()
			req := httptest.NewRequest("POST", "/trainings/t-1/register", nil)

			r := gin.New()
			r.POST("/trainings/:id/register", func(c *gin.Context) {
				setAuth(c)
				h.Register(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestTrainingHandler_MyRegistrations_Success(t *testing.T) {
	h := NewTrainingHandler(&mockTrainingService{
		myRegsResult: []dto.MyTrainingRecordResponse{
			{RegistrationID: "r-1", Status: "awarded", AttendanceStatus: "present", PointsAwarded: 2},
		},
		myRegsTotal: 1,
	})

	w := setupGin()
	req := httptest.NewRequest("GET", "/trainings/my", nil)

	r := gin.New()
	r.GET("/trainings/my", func(c *gin.Context) {
		setAuth(c)
		h.MyRegistrations(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Code int               `json:"code"`
		Data response.PageData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Pagination.Total != 1 {
		t.Errorf("expected total 1, got %d", resp.Data.Pagination.Total)
	}
}

func TestTrainingHandler_MyRegistrations_InternalError(t *testing.T) {
	h := NewTrainingHandler(&mockTrainingService{myRegsErr: errors.New("db down")})

	w := setupGin()
	req := httptest.NewRequest("GET", "/trainings/my", nil)

	r := gin.New()
	r.GET("/trainings/my", func(c *gin.Context) {
		setAuth(c)
		h.MyRegistrations(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 50000 {
		t.Errorf("expected code 50000, got %d", resp.Code)
	}
}

func TestTrainingHandler_SubmitAttendance_Success(t *testing.T) {
	h := NewTrainingHandler(&mockTrainingService{
		attendanceResult: &dto.AttendanceResultResponse{Processed: 3, Skipped: 1},
	})

	w := setupGin()
	req := httptest.NewRequest("POST", "/trainings/t-1/attendance", jsonBody(dto.SubmitAttendanceRequest{
		Records: []dto.AttendanceRecord{
			{UserID: "11111111-1111-1111-1111-111111111111", AttendanceStatus: "present"},
		},
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/trainings/:id/attendance", func(c *gin.Context) {
		setAuth(c)
		h.SubmitAttendance(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestTrainingHandler_SubmitAttendance_AlreadyReviewed(t *testing.T) {
	h := NewTrainingHandler(&mockTrainingService{attendanceErr: service.ErrAttendanceReviewed})

	w := setupGin()
	req := httptest.NewRequest("POST", "/trainings/t-1/attendance", jsonBody(dto.SubmitAttendanceRequest{
		Records: []dto.AttendanceRecord{
			{UserID: "11111111-1111-1111-1111-111111111111", AttendanceStatus: "present"},
		},
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/trainings/:id/attendance", func(c *gin.Context) {
		setAuth(c)
		h.SubmitAttendance(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 13007 {
		t.Errorf("expected code 13007, got %d", resp.Code)
	}
}

func TestTrainingHandler_SubmitAttendance_EmptyRecords(t *testing.T) {
	h := NewTrainingHandler(&mockTrainingService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/trainings/t-1/attendance", jsonBody(dto.SubmitAttendanceRequest{}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/trainings/:id/attendance", func(c *gin.Context) {
		setAuth(c)
		h.SubmitAttendance(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestTrainingHandler_CreateTraining_BadTimeFormat(t *testing.T) {
	h := NewTrainingHandler(&mockTrainingService{createErr: service.ErrInvalidTimeFormat})

	w := setupGin()
	req := httptest.NewRequest("POST", "/trainings", jsonBody(dto.CreateTrainingRequest{
		Name:      "早操训练",
		StartTime: "bad",
		EndTime:   "worse",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/trainings", func(c *gin.Context) {
		setAuth(c)
		h.CreateTraining(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 13002 {
		t.Errorf("expected code 13002, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// EventHandler Tests
// ═══════════════════════════════════════════════════════════

func TestEventHandler_Register_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrEventNotFound, 404, 14001},
		{"Ended", service.ErrEventEnded, 410, 14002},
		{"AlreadyRegistered", service.ErrEventAlreadyRegister, 409, 14003},
		{"InternalError", errors.New("db down"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewEventHandler(&mockEventService{registerErr: tt.err})

			w := setupGin()
			req := httptest.NewRequest("POST", "/events/e-1/register", nil)

			r := gin.New()
			r.POST("/events/:id/register", func(c *gin.Context) {
				setAuth(c)
				h.Register(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestEventHandler_CreateEvent_LinkedTrainingMissing(t *testing.T) {
	h := NewEventHandler(&mockEventService{createErr: service.ErrLinkedTrainingMissing})

	w := setupGin()
	req := httptest.NewRequest("POST", "/events", jsonBody(dto.CreateEventRequest{
		Name: "校运会开幕式",
		Time: "2030-10-01 08:00:00",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/events", func(c *gin.Context) {
		setAuth(c)
		h.CreateEvent(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14005 {
		t.Errorf("expected code 14005, got %d", resp.Code)
	}
}

func TestEventHandler_CancelRegistration_NotRegistered(t *testing.T) {
	h := NewEventHandler(&mockEventService{cancelErr: service.ErrEventNotRegistered})

	w := setupGin()
	req := httptest.NewRequest("DELETE", "/events/e-1/register", nil)

	r := gin.New()
	r.DELETE("/events/:id/register", func(c *gin.Context) {
		setAuth(c)
		h.CancelRegistration(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14004 {
		t.Errorf("expected code 14004, got %d", resp.Code)
	}
}

func TestEventHandler_MyRegistrations_Success(t *testing.T) {
	h := NewEventHandler(&mockEventService{
		myRegsResult: []dto.MyEventRecordResponse{
			{RegistrationID: "r-1", Status: "registered"},
		},
		myRegsTotal: 1,
	})

	w := setupGin()
	req := httptest.NewRequest("GET", "/events/my", nil)

	r := gin.New()
	r.GET("/events/my", func(c *gin.Context) {
		setAuth(c)
		h.MyRegistrations(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Code int               `json:"code"`
		Data response.PageData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Pagination.Total != 1 {
		t.Errorf("expected total 1, got %d", resp.Data.Pagination.Total)
	}
}

// ═══════════════════════════════════════════════════════════
// FlagHandler Tests
// ═══════════════════════════════════════════════════════════

func TestFlagHandler_Approve_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrFlagRecordNotFound, 404, 15001},
		{"AlreadyReviewed", service.ErrAlreadyReviewed, 409, 15002},
		{"InternalError", errors.New("db down"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewFlagHandler(&mockFlagService{approveErr: tt.err})

			w := setupGin()
			req := httptest.NewRequest("POST", "/flags/f-1/approve", nil)

			r := gin.New()
			r.POST("/flags/:id/approve", func(c *gin.Context) {
				setAuth(c)
				h.Approve(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestFlagHandler_CreateRecord_InvalidDate(t *testing.T) {
	h := NewFlagHandler(&mockFlagService{createErr: service.ErrInvalidFlagDate})

	w := setupGin()
	req := httptest.NewRequest("POST", "/flags", jsonBody(dto.CreateFlagRecordRequest{
		Date: "2026/03/01",
		Type: "raise",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/flags", func(c *gin.Context) {
		setAuth(c)
		h.CreateRecord(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15003 {
		t.Errorf("expected code 15003, got %d", resp.Code)
	}
}

func TestFlagHandler_CreateRecord_BadType(t *testing.T) {
	h := NewFlagHandler(&mockFlagService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/flags", jsonBody(dto.CreateFlagRecordRequest{
		Date: "2026-03-01",
		Type: "wave", // oneof=raise lower
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/flags", func(c *gin.Context) {
		setAuth(c)
		h.CreateRecord(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// PointsHandler Tests
// ═══════════════════════════════════════════════════════════

func TestPointsHandler_Adjust_ZeroDelta(t *testing.T) {
	h := NewPointsHandler(&mockPointsService{adjustErr: service.ErrZeroPointsChange})

	w := setupGin()
	req := httptest.NewRequest("POST", "/points/adjust", jsonBody(dto.AdjustPointsRequest{
		UserID:      "11111111-1111-1111-1111-111111111111",
		Points:      1, // service 判零，这里只为通过绑定
		Description: "测试",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/points/adjust", func(c *gin.Context) {
		setAuth(c)
		h.Adjust(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 16001 {
		t.Errorf("expected code 16001, got %d", resp.Code)
	}
}

func TestPointsHandler_Adjust_MissingDescription(t *testing.T) {
	h := NewPointsHandler(&mockPointsService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/points/adjust", jsonBody(map[string]interface{}{
		"user_id": "11111111-1111-1111-1111-111111111111",
		"points":  2,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/points/adjust", func(c *gin.Context) {
		setAuth(c)
		h.Adjust(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestPointsHandler_Export_Headers(t *testing.T) {
	h := NewPointsHandler(&mockPointsService{
		exportBuf:      bytes.NewBufferString("excel content"),
		exportFilename: "积分台账_20260301.xlsx",
	})

	w := setupGin()
	req := httptest.NewRequest("GET", "/points/export", nil)

	r := gin.New()
	r.GET("/points/export", func(c *gin.Context) {
		setAuth(c)
		h.Export(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type: %s", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if cd == "" {
		t.Error("expected Content-Disposition header")
	}
	if w.Body.String() != "excel content" {
		t.Error("expected raw excel bytes in body")
	}
}

func TestPointsHandler_Reconcile_Success(t *testing.T) {
	h := NewPointsHandler(&mockPointsService{
		reconcileResult: &dto.ReconcileResponse{Checked: 10, Fixed: 2},
	})

	w := setupGin()
	req := httptest.NewRequest("POST", "/points/reconcile", nil)

	r := gin.New()
	r.POST("/points/reconcile", func(c *gin.Context) {
		setAuth(c)
		h.Reconcile(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// DashboardHandler Tests
// ═══════════════════════════════════════════════════════════

func TestDashboardHandler_Stats_Success(t *testing.T) {
	h := NewDashboardHandler(&mockDashboardService{
		statsResult: &dto.DashboardStatsResponse{TotalUsers: 5, TotalTrainings: 3},
	})

	w := setupGin()
	req := httptest.NewRequest("GET", "/dashboard/stats", nil)

	r := gin.New()
	r.GET("/dashboard/stats", h.Stats)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestDashboardHandler_PendingItems_InternalError(t *testing.T) {
	h := NewDashboardHandler(&mockDashboardService{pendingErr: errors.New("db down")})

	w := setupGin()
	req := httptest.NewRequest("GET", "/dashboard/pending", nil)

	r := gin.New()
	r.GET("/dashboard/pending", h.PendingItems)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 50000 {
		t.Errorf("expected code 50000, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// FileHandler Tests
// ═══════════════════════════════════════════════════════════

func uploadConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Upload: config.UploadConfig{
			Dir:         t.TempDir(),
			MaxSizeMB:   5,
			AllowedExts: []string{"jpg", "jpeg", "png"},
		},
	}
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write(content)
	mw.Close()
	return buf, mw.FormDataContentType()
}

func TestFileHandler_Upload_Success(t *testing.T) {
	h := NewFileHandler(uploadConfig(t), zap.NewNop())

	body, contentType := multipartBody(t, "file", "photo.JPG", []byte("fake image"))
	w := setupGin()
	req := httptest.NewRequest("POST", "/files/upload", body)
	req.Header.Set("Content-Type", contentType)

	r := gin.New()
	r.POST("/files/upload", func(c *gin.Context) {
		setAuth(c)
		h.Upload(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	var resp struct {
		Code int `json:"code"`
		Data struct {
			Filename string `json:"filename"`
			URL      string `json:"url"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Filename == "" || resp.Data.Filename == "photo.JPG" {
		t.Errorf("expected randomized filename, got %q", resp.Data.Filename)
	}
	if resp.Data.URL != "/api/uploads/"+resp.Data.Filename {
		t.Errorf("unexpected url: %s", resp.Data.URL)
	}
}

func TestFileHandler_Upload_MissingFile(t *testing.T) {
	h := NewFileHandler(uploadConfig(t), zap.NewNop())

	w := setupGin()
	req := httptest.NewRequest("POST", "/files/upload", nil)

	r := gin.New()
	r.POST("/files/upload", func(c *gin.Context) {
		setAuth(c)
		h.Upload(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 17001 {
		t.Errorf("expected code 17001, got %d", resp.Code)
	}
}

func TestFileHandler_Upload_DisallowedExt(t *testing.T) {
	h := NewFileHandler(uploadConfig(t), zap.NewNop())

	body, contentType := multipartBody(t, "file", "malware.exe", []byte("MZ"))
	w := setupGin()
	req := httptest.NewRequest("POST", "/files/upload", body)
	req.Header.Set("Content-Type", contentType)

	r := gin.New()
	r.POST("/files/upload", func(c *gin.Context) {
		setAuth(c)
		h.Upload(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 17002 {
		t.Errorf("expected code 17002, got %d", resp.Code)
	}
}
