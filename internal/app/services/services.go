package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/cache"
)

// User facing messages.
const (
	msgInvalidCredentials = "Tên đăng nhập hoặc mật khẩu không đúng."
	msgAccountDisabled    = "Tài khoản đã bị khóa."
	msgInvalidRefresh     = "Refresh token không hợp lệ hoặc đã hết hạn."
	msgUsernameTaken      = "Tên đăng nhập đã tồn tại."
	msgUserNotFound       = "Người dùng không tồn tại."

	msgCourseNotFound   = "Khóa học không tồn tại."
	msgSectionNotFound  = "Chương học không tồn tại."
	msgLessonNotFound   = "Bài học không tồn tại."
	msgInvalidPrice     = "Giá khóa học không được âm."
	msgInvalidImageFile = "Tệp ảnh không hợp lệ."

	msgAlreadyEnrolled    = "Bạn đã đăng ký khóa học này rồi."
	msgEnrollmentNotFound = "Không tìm thấy đăng ký khóa học."
	msgProgressExists     = "Tiến độ cho bài học này đã tồn tại."
	msgProgressNotFound   = "Không tìm thấy tiến độ bài học."
	msgEventNotFound      = "Sự kiện không tồn tại."
	msgInvalidCategory    = "Danh mục sự kiện không hợp lệ."
	msgInvalidDate        = "Ngày không hợp lệ, định dạng YYYY-MM-DD."
	msgAlreadyRegistered  = "Bạn đã đăng ký sự kiện này rồi."
	msgNotRegistered      = "Bạn chưa đăng ký sự kiện này."
)

// Cache keys of aggregation results.
const (
	cacheKeyDashboard     = "stats:dashboard"
	cacheKeyCourseRevenue = "stats:course-revenue"
)

// Clock returns the current time.
type Clock func() time.Time

// invalidateStats drops cached aggregates after a write that changes them.
// Failures are logged; the entries expire on their own.
func invalidateStats(ctx context.Context, c cache.Cache, logger zerolog.Logger) {
	if err := c.Delete(ctx, cacheKeyDashboard, cacheKeyCourseRevenue); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate statistics cache")
	}
}

// withMessage attaches a user facing message when err matches target.
func withMessage(err, target error, message string) error {
	if errors.Is(err, target) {
		return apperrors.NewCustomError(target, message)
	}
	return err
}
