package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "middleware-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "learnhub.test",
	})
}

func bearer(t *testing.T, jwtService *auth.JWTService, user *models.User, role string) string {
	t.Helper()
	pair, err := jwtService.GenerateTokenPair(user, role)
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func whoAmI(c *gin.Context) {
	actor := ActorFromContext(c)
	if actor == nil {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, fmt.Sprintf("%d:%s:%t", actor.UserID, actor.Role, actor.IsAdmin()))
}

func authRouter(m *AuthMiddleware) *gin.Engine {
	r := gin.New()
	r.GET("/optional", m.OptionalAuth(), whoAmI)
	r.GET("/private", m.JWTAuth(), whoAmI)
	r.POST("/admin", m.JWTAuth(), m.AdminRequired(), whoAmI)
	return r
}

func TestOptionalAuth(t *testing.T) {
	jwtService := newJWT()
	r := authRouter(NewAuthMiddleware(jwtService))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/optional", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", bearer(t, jwtService, &models.User{ID: 4, Username: "dana"}, models.RoleUser))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "4:user:false", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidToken, decodeError(t, w).Error.Code)
}

func TestJWTAuthRequiresHeader(t *testing.T) {
	r := authRouter(NewAuthMiddleware(newJWT()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeError(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, dto.ErrorCodeUnauthorized, body.Error.Code)
	assert.NotEmpty(t, body.Detail)
}

func TestAdminRequired(t *testing.T) {
	jwtService := newJWT()
	r := authRouter(NewAuthMiddleware(jwtService))

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set("Authorization", bearer(t, jwtService, &models.User{ID: 2, Username: "bob"}, models.RoleUser))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrorCodeForbidden, decodeError(t, w).Error.Code)

	req = httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set("Authorization", bearer(t, jwtService, &models.User{ID: 1, Username: "root"}, models.RoleAdmin))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1:admin:true", w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set("Authorization", bearer(t, jwtService, &models.User{ID: 3, Username: "staff", IsStaff: true}, models.RoleUser))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"domain message", apperrors.NewCustomError(apperrors.ErrAlreadyEnrolled, "Bạn đã đăng ký khóa học này rồi."), http.StatusBadRequest, "Bạn đã đăng ký khóa học này rồi."},
		{"wrapped not found", fmt.Errorf("get: %w", apperrors.ErrCourseNotFound), http.StatusNotFound, "Không tìm thấy tài nguyên."},
		{"forbidden", apperrors.NewForbiddenError("no"), http.StatusForbidden, "no"},
		{"unauthorized", apperrors.NewUnauthorizedError("login"), http.StatusUnauthorized, "login"},
		{"bad credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "Thông tin đăng nhập không đúng."},
		{"validation", apperrors.ErrInvalidEventCategory, http.StatusBadRequest, "Dữ liệu không hợp lệ."},
		{"duplicate", apperrors.ErrUsernameAlreadyExists, http.StatusBadRequest, "Yêu cầu không hợp lệ."},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Đã xảy ra lỗi hệ thống."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) { HandleAPIError(c, tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.detail, body.Detail)
			assert.Equal(t, tt.detail, body.Error.Message)
		})
	}
}

type bindTarget struct {
	CourseID int64  `json:"course_id" binding:"required"`
	Title    string `json:"title" binding:"required,max=5"`
}

func TestHandleBindingError(t *testing.T) {
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var req bindTarget
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleBindingError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"much too long"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, dto.ErrorCodeValidationFailed, body.Error.Code)
	details, ok := body.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "course_id is required", details["course_id"])
	assert.Equal(t, "title must be at most 5", details["title"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"course_id":"x","title":"a"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "course_id", decodeError(t, w).Error.Field)
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/api/courses", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/courses", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

type memCounter struct {
	hits map[string]int64
	err  error
}

func (m *memCounter) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if m.err != nil {
		return 0, 0, m.err
	}
	m.hits[key]++
	return m.hits[key], window, nil
}

func TestRateLimiter(t *testing.T) {
	rl := &RateLimiter{counter: &memCounter{hits: map[string]int64{}}, logger: zerolog.Nop()}
	r := gin.New()
	r.POST("/token/", rl.Limit("login", 2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/token/", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.Equal(t, "60", w.Header().Get("Retry-After"))
			assert.Equal(t, dto.ErrorCodeRateLimited, decodeError(t, w).Error.Code)
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	r := gin.New()
	disabled := NewRateLimiter(nil, zerolog.Nop())
	broken := &RateLimiter{counter: &memCounter{err: errors.New("connection refused")}, logger: zerolog.Nop()}
	r.GET("/a", disabled.Limit("a", 0, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/b", broken.Limit("b", 0, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/a", "/b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
