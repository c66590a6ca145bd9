package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/logger"
)

type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Không tìm thấy tài nguyên."},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Bạn không có quyền thực hiện thao tác này."},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Thông tin đăng nhập không đúng."},
	{apperrors.ErrAccountDisabled, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Tài khoản đã bị khóa."},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token đã hết hạn."},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token không hợp lệ."},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token không hợp lệ."},
	{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token đã bị thu hồi."},
	{apperrors.ErrInvalidFormat, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token không hợp lệ."},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Bạn cần đăng nhập để thực hiện thao tác này."},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Dữ liệu không hợp lệ."},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "Yêu cầu không hợp lệ."},
}

// HandleAPIError handles common API errors and returns appropriate responses.
// A user message carried by the error replaces the generic one.
func HandleAPIError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Đã xảy ra lỗi hệ thống.")

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			status = m.status
			errorDetail = dto.NewErrorDetail(m.code, m.message)
			if msg, ok := apperrors.UserMessage(err); ok {
				errorDetail.Message = msg
			}
			break
		}
	}

	var custom *apperrors.CustomError
	if errors.As(err, &custom) && len(custom.Details) > 0 {
		errorDetail = errorDetail.WithDetails(custom.Details)
	}

	if status >= http.StatusInternalServerError {
		errorDetail = errorDetail.WithSeverity(dto.ErrorSeverityCritical)
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Str("method", c.Request.Method).Msg("Unhandled error")
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(errorDetail))
}
