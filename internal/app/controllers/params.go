package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/models/dto"
)

// parseIDParam reads a positive int64 path parameter and writes a 400 when it is malformed.
// label names the resource in the message, e.g. "khóa học".
func parseIDParam(ctx *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Mã "+label+" không hợp lệ.")
		errorDetail = errorDetail.WithField(name).WithDetails("Mã " + label + " phải là số nguyên dương.")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

func invalidQuery(ctx *gin.Context, name string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Tham số truy vấn không hợp lệ.")
	errorDetail = errorDetail.WithField(name).WithDetails(name + " phải là số nguyên dương.")
	ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
