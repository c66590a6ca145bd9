package routes

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learnhub/internal/app/auth"
	"github.com/yigit/learnhub/internal/app/controllers"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/middleware"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	pkgAuth "github.com/yigit/learnhub/internal/pkg/auth"
)

type fakeCourseService struct {
	created *dto.CreateCourseRequest
	actor   *auth.Actor
}

func (f *fakeCourseService) ListCourses(context.Context) ([]dto.CourseResponse, error) {
	return []dto.CourseResponse{{ID: 1, Title: "Go"}}, nil
}

func (f *fakeCourseService) GetCourse(_ context.Context, id int64) (*dto.CourseDetailResponse, error) {
	if id != 1 {
		return nil, apperrors.NewCustomError(apperrors.ErrCourseNotFound, "Khóa học không tồn tại.")
	}
	return &dto.CourseDetailResponse{CourseResponse: dto.CourseResponse{ID: 1, Title: "Go"}, TotalLessons: 3}, nil
}

func (f *fakeCourseService) CreateCourse(_ context.Context, actor *auth.Actor, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	f.actor, f.created = actor, req
	return &dto.CourseResponse{ID: 10, Title: req.Title}, nil
}

func (f *fakeCourseService) UpdateCourse(context.Context, *auth.Actor, int64, *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	return &dto.CourseResponse{}, nil
}

func (f *fakeCourseService) DeleteCourse(context.Context, *auth.Actor, int64) error { return nil }

func (f *fakeCourseService) UploadCourseImage(context.Context, *auth.Actor, int64, *multipart.FileHeader) (*dto.CourseResponse, error) {
	return &dto.CourseResponse{}, nil
}

func (f *fakeCourseService) ListLatestWithStudents(_ context.Context, limit int) ([]dto.CourseWithStudentsResponse, error) {
	return make([]dto.CourseWithStudentsResponse, limit), nil
}

type fakeEnrollmentService struct {
	enrolled map[int64]bool
}

func (f *fakeEnrollmentService) ListEnrollments(context.Context, *auth.Actor) ([]dto.EnrollmentResponse, error) {
	return nil, nil
}

func (f *fakeEnrollmentService) ListPaidEnrollments(context.Context, *auth.Actor) ([]dto.EnrollmentResponse, error) {
	return nil, nil
}

func (f *fakeEnrollmentService) GetEnrollment(context.Context, *auth.Actor, int64) (*dto.EnrollmentResponse, error) {
	return nil, apperrors.ErrEnrollmentNotFound
}

func (f *fakeEnrollmentService) Enroll(_ context.Context, actor *auth.Actor, req *dto.CreateEnrollmentRequest) (*dto.EnrollmentResponse, error) {
	if f.enrolled[req.CourseID] {
		return nil, apperrors.NewCustomError(apperrors.ErrAlreadyEnrolled, "Bạn đã đăng ký khóa học này rồi.")
	}
	f.enrolled[req.CourseID] = true
	return &dto.EnrollmentResponse{ID: 1, UserID: actor.UserID, CourseID: req.CourseID}, nil
}

func (f *fakeEnrollmentService) IsEnrolled(_ context.Context, _ *auth.Actor, courseID int64) (bool, error) {
	return f.enrolled[courseID], nil
}

func (f *fakeEnrollmentService) DeleteEnrollment(context.Context, *auth.Actor, int64) error {
	return nil
}

type fakeRegisterService struct {
	registered map[int64]bool
}

func (f *fakeRegisterService) ListRegistrations(context.Context, *auth.Actor) ([]dto.EventRegisterResponse, error) {
	return nil, nil
}

func (f *fakeRegisterService) Register(_ context.Context, _ *auth.Actor, req *dto.CreateEventRegisterRequest) (*dto.EventRegisterResponse, error) {
	f.registered[req.EventID] = true
	return &dto.EventRegisterResponse{ID: 1, EventID: req.EventID}, nil
}

func (f *fakeRegisterService) IsRegistered(_ context.Context, _ *auth.Actor, eventID int64) (bool, error) {
	return f.registered[eventID], nil
}

func (f *fakeRegisterService) Cancel(_ context.Context, _ *auth.Actor, eventID int64) error {
	if !f.registered[eventID] {
		return apperrors.NewCustomError(apperrors.ErrNotRegistered, "Bạn chưa đăng ký sự kiện này.")
	}
	delete(f.registered, eventID)
	return nil
}

type fakeStatsService struct {
	top int
}

func (f *fakeStatsService) TopRevenue(_ context.Context, top int) ([]dto.CourseRevenueResponse, error) {
	f.top = top
	return []dto.CourseRevenueResponse{}, nil
}

func (f *fakeStatsService) Dashboard(context.Context) (*dto.DashboardStatsResponse, error) {
	return &dto.DashboardStatsResponse{Courses: dto.PeriodStat{Total: 4, Change: "+1"}}, nil
}

type testEnv struct {
	router      *gin.Engine
	jwt         *pkgAuth.JWTService
	courses     *fakeCourseService
	enrollments *fakeEnrollmentService
	registers   *fakeRegisterService
	stats       *fakeStatsService
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)
	env := &testEnv{
		jwt: pkgAuth.NewJWTService(pkgAuth.JWTConfig{
			SecretKey:       "routes-secret",
			AccessTokenExp:  time.Hour,
			RefreshTokenExp: 24 * time.Hour,
			TokenIssuer:     "learnhub.test",
		}),
		courses:     &fakeCourseService{},
		enrollments: &fakeEnrollmentService{enrolled: map[int64]bool{}},
		registers:   &fakeRegisterService{registered: map[int64]bool{}},
		stats:       &fakeStatsService{},
	}

	env.router = gin.New()
	SetupRouter(env.router, Controllers{
		Auth:           controllers.NewAuthController(nil),
		Course:         controllers.NewCourseController(env.courses),
		Section:        controllers.NewSectionController(nil, nil),
		Lesson:         controllers.NewLessonController(nil),
		Enrollment:     controllers.NewEnrollmentController(env.enrollments),
		LessonProgress: controllers.NewLessonProgressController(nil),
		Event:          controllers.NewEventController(nil, env.registers),
		Stats:          controllers.NewStatsController(env.stats),
	}, middleware.NewAuthMiddleware(env.jwt), middleware.NewRateLimiter(nil, zerolog.Nop()))
	return env
}

func (e *testEnv) token(t *testing.T, id int64, role string) string {
	t.Helper()
	pair, err := e.jwt.GenerateTokenPair(&models.User{ID: id, Username: "user"}, role)
	require.NoError(t, err)
	return pair.AccessToken
}

func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestCreateCourseRequiresAdmin(t *testing.T) {
	env := newTestEnv()
	body := `{"title":"Go in practice","is_paid":true,"price":499000}`

	w := env.do(http.MethodPost, "/api/courses", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/api/courses", env.token(t, 2, models.RoleUser), body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Nil(t, env.courses.created)

	w = env.do(http.MethodPost, "/api/courses", env.token(t, 1, models.RoleAdmin), body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Go in practice", env.courses.created.Title)
	assert.Equal(t, int64(1), env.courses.actor.UserID)

	resp := decode[struct {
		Success bool               `json:"success"`
		Data    dto.CourseResponse `json:"data"`
	}](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(10), resp.Data.ID)
}

func TestCreateCourseValidation(t *testing.T) {
	env := newTestEnv()
	admin := env.token(t, 1, models.RoleAdmin)
	w := env.do(http.MethodPost, "/api/courses", admin, `{"price":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decode[dto.ErrorResponse](t, w).Error.Code)

	// NUMERIC(10,2) cannot hold this price
	w = env.do(http.MethodPost, "/api/courses", admin, `{"title":"Go","price":100000000}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	details, ok := decode[dto.ErrorResponse](t, w).Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "price must be less than or equal to 99999999.99", details["price"])

	w = env.do(http.MethodPost, "/api/events", admin,
		`{"title":"Go Meetup","date":"2025-05-01","category":"seminar","attendees":3000000000}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	details, ok = decode[dto.ErrorResponse](t, w).Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, details, "attendees")
}

func TestPublicReads(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodGet, "/api/courses", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/courses/1", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/courses/2", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Khóa học không tồn tại.", decode[dto.ErrorResponse](t, w).Detail)

	w = env.do(http.MethodGet, "/api/courses/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, "Mã khóa học không hợp lệ.", body.Detail)
	assert.Equal(t, "id", body.Error.Field)

	// an invalid token is rejected even on public routes
	w = env.do(http.MethodGet, "/api/courses", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEnrollDuplicate(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, 5, models.RoleUser)

	w := env.do(http.MethodPost, "/api/enrollments", "", `{"course_id":3}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/api/enrollments", token, `{"course_id":3}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(http.MethodPost, "/api/enrollments", token, `{"course_id":3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Bạn đã đăng ký khóa học này rồi.", decode[dto.ErrorResponse](t, w).Detail)

	w = env.do(http.MethodGet, "/api/enrollments/is-enrolled/3", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Data dto.IsEnrolledResponse `json:"data"`
	}](t, w)
	assert.True(t, resp.Data.IsEnrolled)

	w = env.do(http.MethodPost, "/api/enrollments", token, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelEventRegistration(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, 5, models.RoleUser)

	w := env.do(http.MethodDelete, "/api/event-registers/cancel/7", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Bạn chưa đăng ký sự kiện này.", decode[dto.ErrorResponse](t, w).Detail)

	w = env.do(http.MethodPost, "/api/event-registers", token, `{"event_id":7}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(http.MethodDelete, "/api/event-registers/cancel/7", token, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestTopRevenueQuery(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodGet, "/api/courses/top-revenue", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.stats.top)

	w = env.do(http.MethodGet, "/api/courses/top-revenue?top=3", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, env.stats.top)

	for _, bad := range []string{"abc", "0", "-2"} {
		w = env.do(http.MethodGet, "/api/courses/top-revenue?top="+bad, "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
		body := decode[dto.ErrorResponse](t, w)
		assert.Equal(t, "Tham số truy vấn không hợp lệ.", body.Detail)
		assert.Equal(t, "top phải là số nguyên dương.", body.Error.Details)
	}
}

func TestLatestWithStudentsClampsLimit(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodGet, "/api/courses/latest-with-students", "", "")
	resp := decode[struct {
		Data []dto.CourseWithStudentsResponse `json:"data"`
	}](t, w)
	assert.Len(t, resp.Data, 5)

	w = env.do(http.MethodGet, "/api/courses/latest-with-students?limit=500", "", "")
	resp = decode[struct {
		Data []dto.CourseWithStudentsResponse `json:"data"`
	}](t, w)
	assert.Len(t, resp.Data, 50)
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv()
	w := env.do(http.MethodGet, "/api/dashboard/stats", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Data dto.DashboardStatsResponse `json:"data"`
	}](t, w)
	assert.Equal(t, "+1", resp.Data.Courses.Change)
}

func TestTokenPathWithoutSlashRedirects(t *testing.T) {
	env := newTestEnv()
	w := env.do(http.MethodPost, "/api/token", "", `{}`)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/api/token/", w.Header().Get("Location"))
}

func TestCurrentUserRequiresToken(t *testing.T) {
	env := newTestEnv()
	w := env.do(http.MethodGet, "/api/auth/user/", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
