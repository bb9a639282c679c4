package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/file"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/storage"
)

// ========================================
// MOCKS
// ========================================

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(auth.TokenResponse), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, req auth.LogoutRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAuthService) IsRevoked(ctx context.Context, token string) (bool, error) {
	return false, nil
}

func (m *mockAuthService) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockAttendanceService struct{ mock.Mock }

func (m *mockAttendanceService) Submit(ctx context.Context, req attendance.SubmitRequest) (attendance.SubmitResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(attendance.SubmitResponse), args.Error(1)
}

func (m *mockAttendanceService) Approve(ctx context.Context, id int64) (attendance.StatusResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(attendance.StatusResponse), args.Error(1)
}

func (m *mockAttendanceService) Reject(ctx context.Context, req attendance.RejectRequest) (attendance.StatusResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(attendance.StatusResponse), args.Error(1)
}

func (m *mockAttendanceService) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.ClockOutResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(attendance.ClockOutResponse), args.Error(1)
}

func (m *mockAttendanceService) GetToday(ctx context.Context, employeeCode string) (*attendance.AttendanceResponse, error) {
	args := m.Called(ctx, employeeCode)
	resp, _ := args.Get(0).(*attendance.AttendanceResponse)
	return resp, args.Error(1)
}

func (m *mockAttendanceService) GetMyAttendance(ctx context.Context, employeeCode string, query attendance.ListQuery) (attendance.ListAttendanceResponse, error) {
	args := m.Called(ctx, employeeCode, query)
	return args.Get(0).(attendance.ListAttendanceResponse), args.Error(1)
}

func (m *mockAttendanceService) ListAttendance(ctx context.Context, query attendance.ListQuery) (attendance.ListAttendanceResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(attendance.ListAttendanceResponse), args.Error(1)
}

type mockReportService struct{ mock.Mock }

func (m *mockReportService) MonthlySummary(ctx context.Context, req report.MonthlySummaryRequest) (report.MonthlySummaryResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(report.MonthlySummaryResponse), args.Error(1)
}

func (m *mockReportService) EmployeeStats(ctx context.Context, req report.EmployeeStatsRequest) (report.EmployeeStatsResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(report.EmployeeStatsResponse), args.Error(1)
}

func (m *mockReportService) DepartmentStats(ctx context.Context, req report.DepartmentStatsRequest) (report.DepartmentStatsResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(report.DepartmentStatsResponse), args.Error(1)
}

type mockFileService struct{ mock.Mock }

func (m *mockFileService) StorePhoto(ctx context.Context, req file.StorePhotoRequest) (file.StoreResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(file.StoreResult), args.Error(1)
}

// ========================================
// HARNESS
// ========================================

const handlerTestSecret = "test-secret-key-for-jwt"

type testServer struct {
	router     http.Handler
	jwt        jwt.Service
	auth       *mockAuthService
	attendance *mockAttendanceService
	report     *mockReportService
	file       *mockFileService
	storage    *storage.LocalStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/files")
	require.NoError(t, err)

	ts := &testServer{
		jwt:        jwt.NewJWTService(handlerTestSecret, time.Hour, clockwork.NewRealClock()),
		auth:       &mockAuthService{},
		attendance: &mockAttendanceService{},
		report:     &mockReportService{},
		file:       &mockFileService{},
		storage:    store,
	}

	ts.router = NewRouter(RouterConfig{LoginPerMinute: 3, SubmitPerMinute: 100}, ts.jwt, ts.auth, Handlers{
		Auth:       NewAuthHandler(ts.auth),
		Attendance: NewAttendanceHandler(ts.attendance, ts.file, 1024),
		Report:     NewReportHandler(ts.report),
		File:       NewFileHandler(store),
	})
	return ts
}

func (ts *testServer) token(t *testing.T, role user.Role, employeeCode string) string {
	t.Helper()
	token, _, err := ts.jwt.GenerateAccessToken(jwt.Principal{UserID: 1, Email: "u@example.com", Role: role, EmployeeCode: employeeCode})
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func multipartPhoto(t *testing.T, method, target string, photo []byte) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	if photo != nil {
		part, err := mw.CreateFormFile("photo", "selfie.png")
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

// ========================================
// ATTENDANCE
// ========================================

func TestSubmitAttendance(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, user.RoleEmployee, "EMP001")
	photo := []byte("\x89PNG\r\n\x1a\nfake")

	ts.file.On("StorePhoto", mock.Anything, file.StorePhotoRequest{Content: photo, OriginalName: "selfie.png"}).
		Return(file.StoreResult{URL: "http://localhost:8080/files/attendance/ab/ab.jpg"}, nil)
	ts.attendance.On("Submit", mock.Anything, attendance.SubmitRequest{
		EmployeeCode: "EMP001",
		PhotoURL:     "http://localhost:8080/files/attendance/ab/ab.jpg",
	}).Return(attendance.SubmitResponse{ID: 7, Message: "Attendance submitted successfully"}, nil)

	rec := ts.do(multipartPhoto(t, http.MethodPost, "/api/v1/attendance/submit", photo), token)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Attendance submitted successfully", resp.Message)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	ts.attendance.AssertExpectations(t)
}

func TestSubmitAttendance_Errors(t *testing.T) {
	t.Run("missing photo", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(multipartPhoto(t, http.MethodPost, "/api/v1/attendance/submit", nil), ts.token(t, user.RoleEmployee, "EMP001"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Photo is required", decodeResponse(t, rec).Message)
		ts.attendance.AssertNumberOfCalls(t, "Submit", 0)
	})

	t.Run("photo too large", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(multipartPhoto(t, http.MethodPost, "/api/v1/attendance/submit", bytes.Repeat([]byte{0xff}, 2048)), ts.token(t, user.RoleEmployee, "EMP001"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "FILE_TOO_LARGE", decodeResponse(t, rec).Code)
	})

	t.Run("duplicate", func(t *testing.T) {
		ts := newTestServer(t)
		ts.file.On("StorePhoto", mock.Anything, mock.Anything).Return(file.StoreResult{URL: "u"}, nil)
		ts.attendance.On("Submit", mock.Anything, mock.Anything).Return(attendance.SubmitResponse{}, attendance.ErrDuplicateAttendance)

		rec := ts.do(multipartPhoto(t, http.MethodPost, "/api/v1/attendance/submit", []byte("x")), ts.token(t, user.RoleEmployee, "EMP001"))

		assert.Equal(t, http.StatusConflict, rec.Code)
		resp := decodeResponse(t, rec)
		assert.Equal(t, "DUPLICATE_ATTENDANCE", resp.Code)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("hr admin cannot submit", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(multipartPhoto(t, http.MethodPost, "/api/v1/attendance/submit", []byte("x")), ts.token(t, user.RoleHRAdmin, ""))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(multipartPhoto(t, http.MethodPost, "/api/v1/attendance/submit", []byte("x")), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestClockOut(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, user.RoleEmployee, "EMP001")

	ts.attendance.On("ClockOut", mock.Anything, attendance.ClockOutRequest{ID: 12, EmployeeCode: "EMP001"}).
		Return(attendance.ClockOutResponse{ID: 12, TotalWorkingHours: "8h 30m", Message: "Clock out successful"}, nil)

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/attendance/clock-out/12", nil), token)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeResponse(t, rec).Data.(map[string]interface{})
	assert.Equal(t, "8h 30m", data["totalWorkingHours"])

	rec = ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/attendance/clock-out/abc", nil), token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeResponse(t, rec).Code)
}

func TestApproveReject(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, user.RoleHRAdmin, "")

	ts.attendance.On("Approve", mock.Anything, int64(42)).
		Return(attendance.StatusResponse{ID: 42, Status: attendance.StatusApproved, Message: "Attendance approved"}, nil)
	ts.attendance.On("Reject", mock.Anything, attendance.RejectRequest{ID: 43, Reason: "Blurry photo"}).
		Return(attendance.StatusResponse{ID: 43, Status: attendance.StatusRejected, Message: "Attendance rejected"}, nil)
	ts.attendance.On("Approve", mock.Anything, int64(44)).
		Return(attendance.StatusResponse{}, attendance.ErrCannotApprove)

	rec := ts.do(httptest.NewRequest(http.MethodPut, "/api/v1/attendance/42/approve", nil), admin)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(httptest.NewRequest(http.MethodPut, "/api/v1/attendance/43/reject", strings.NewReader(`{"reason":"Blurry photo"}`)), admin)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(httptest.NewRequest(http.MethodPut, "/api/v1/attendance/44/approve", nil), admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", decodeResponse(t, rec).Code)

	employee := ts.token(t, user.RoleEmployee, "EMP001")
	rec = ts.do(httptest.NewRequest(http.MethodPut, "/api/v1/attendance/42/approve", nil), employee)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	ts.attendance.AssertNumberOfCalls(t, "Approve", 2)
}

func TestListAttendance(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, user.RoleHRAdmin, "")

	ts.attendance.On("ListAttendance", mock.Anything, attendance.ListQuery{Page: 2, Limit: 5, StartDate: "2024-03-01", EndDate: "2024-03-31"}).
		Return(attendance.ListAttendanceResponse{
			Data:       []attendance.AttendanceResponse{},
			Pagination: attendance.NewPaginationMeta(2, 5, 12),
		}, nil)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/attendance?page=2&limit=5&startDate=2024-03-01&endDate=2024-03-31", nil), admin)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/attendance?page=two", nil), admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/attendance", nil), ts.token(t, user.RoleEmployee, "EMP001"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMyHistoryAndToday(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, user.RoleEmployee, "EMP001")

	ts.attendance.On("GetMyAttendance", mock.Anything, "EMP001", attendance.ListQuery{}).
		Return(attendance.ListAttendanceResponse{Pagination: attendance.NewPaginationMeta(1, 10, 0)}, nil)
	ts.attendance.On("GetToday", mock.Anything, "EMP001").Return(nil, nil)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/attendance/my-history", nil), token)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/attendance/today", nil), token)
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Data)
	assert.Equal(t, "No attendance submitted today", resp.Message)
}

// ========================================
// REPORTS
// ========================================

func TestReports(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, user.RoleHRAdmin, "")
	code := "EMP001"

	ts.report.On("MonthlySummary", mock.Anything, report.MonthlySummaryRequest{
		PeriodRequest: report.PeriodRequest{Year: 2024, Month: 2},
		EmployeeCode:  &code,
	}).Return(report.MonthlySummaryResponse{}, nil)
	ts.report.On("EmployeeStats", mock.Anything, report.EmployeeStatsRequest{
		PeriodRequest: report.PeriodRequest{Year: 2024, Month: 2},
		EmployeeCode:  "EMP001",
	}).Return(report.EmployeeStatsResponse{}, nil)
	ts.report.On("DepartmentStats", mock.Anything, report.DepartmentStatsRequest{
		PeriodRequest: report.PeriodRequest{Year: 2024, Month: 2},
	}).Return(report.DepartmentStatsResponse{}, nil)

	for _, target := range []string{
		"/api/v1/reports/monthly-summary?year=2024&month=2&employeeCode=EMP001",
		"/api/v1/reports/employee-stats?year=2024&month=2&employeeCode=EMP001",
		"/api/v1/reports/department-stats?year=2024&month=2",
	} {
		rec := ts.do(httptest.NewRequest(http.MethodGet, target, nil), admin)
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/reports/department-stats?year=abc&month=2", nil), admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]string{"year": "year must be a number"}, decodeResponse(t, rec).Error.Details)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/reports/department-stats?year=2024&month=2", nil), ts.token(t, user.RoleEmployee, "EMP001"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// ========================================
// AUTH
// ========================================

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	ts.auth.On("Login", mock.Anything, auth.LoginRequest{Email: "ayu@example.com", Password: "password123"}).
		Return(auth.TokenResponse{AccessToken: "token", User: auth.UserInfo{ID: 1}}, nil)
	ts.auth.On("Login", mock.Anything, auth.LoginRequest{Email: "ayu@example.com", Password: "wrong"}).
		Return(auth.TokenResponse{}, auth.ErrInvalidCredentials)

	login := func(body string) *httptest.ResponseRecorder {
		return ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body)), "")
	}

	rec := login(`{"email":"ayu@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = login(`{"email":"ayu@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeResponse(t, rec).Code)

	rec = login(`{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// the limiter allows three logins per minute per client
	rec = login(`{"email":"ayu@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", decodeResponse(t, rec).Code)
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, user.RoleEmployee, "EMP001")

	ts.auth.On("Logout", mock.Anything, mock.MatchedBy(func(req auth.LogoutRequest) bool {
		return req.Token == token && req.ExpiresAt > time.Now().Unix()
	})).Return(nil)

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil), token)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ts.auth.AssertExpectations(t)
}

// ========================================
// FILES
// ========================================

func TestServeAttendancePhoto(t *testing.T) {
	ts := newTestServer(t)

	_, err := ts.storage.Upload(context.Background(), strings.NewReader("jpeg-bytes"), "attendance/ab/abcd.jpg", "image/jpeg")
	require.NoError(t, err)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/files/attendance/ab/abcd.jpg", nil), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg-bytes", rec.Body.String())
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/files/attendance/zz/missing.jpg", nil), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeResponse(t, rec).Code)
}
