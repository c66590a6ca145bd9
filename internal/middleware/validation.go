package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/learnhub/internal/app/models/dto"
)

// HandleBindingError writes a 400 for a request body that failed to bind or validate.
func HandleBindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(ValidationErrorDetail(err)))
}

// ValidationErrorDetail converts binding errors into an ErrorDetail with one entry per field.
func ValidationErrorDetail(err error) *dto.ErrorDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[jsonFieldName(fe)] = formatValidationError(fe)
		}
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Dữ liệu không hợp lệ.").WithDetails(fields)
		if len(verrs) == 1 {
			detail = detail.WithField(jsonFieldName(verrs[0]))
		}
		return detail
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Dữ liệu không hợp lệ.").
			WithField(typeErr.Field).
			WithDetails(typeErr.Field + " must be of type " + typeErr.Type.String())
	}

	return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Định dạng yêu cầu không hợp lệ.").WithDetails(err.Error())
}

// jsonFieldName turns the struct namespace into a snake_case name, e.g. CourseID => course_id.
func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(name[i-1] >= 'A' && name[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := jsonFieldName(e)
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "gte":
		return field + " must be greater than or equal to " + e.Param()
	case "lte":
		return field + " must be less than or equal to " + e.Param()
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "datetime":
		return field + " must match the format " + e.Param()
	default:
		return field + " validation failed: " + e.Tag()
	}
}
