package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/services"
	"github.com/yigit/learnhub/internal/middleware"
)

// LessonProgressController tracks watched lessons
type LessonProgressController struct {
	progressService services.LessonProgressService
}

// NewLessonProgressController creates a new LessonProgressController
func NewLessonProgressController(progressService services.LessonProgressService) *LessonProgressController {
	return &LessonProgressController{progressService: progressService}
}

// ListProgress lists lesson progress records
// @Summary List lesson progress
// @Tags lesson-progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.LessonProgressResponse} "Progress retrieved successfully"
// @Router /lessonprogresses [get]
func (c *LessonProgressController) ListProgress(ctx *gin.Context) {
	rows, err := c.progressService.ListProgress(ctx.Request.Context(), middleware.ActorFromContext(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rows))
}

// GetProgress retrieves a progress record
// @Summary Get lesson progress by ID
// @Tags lesson-progress
// @Produce json
// @Security BearerAuth
// @Param id path int true "Progress ID"
// @Success 200 {object} dto.APIResponse{data=dto.LessonProgressResponse} "Progress retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Progress not found"
// @Router /lessonprogresses/{id} [get]
func (c *LessonProgressController) GetProgress(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "tiến độ học")
	if !ok {
		return
	}

	progress, err := c.progressService.GetProgress(ctx.Request.Context(), middleware.ActorFromContext(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(progress))
}

// CreateProgress starts tracking a lesson for the caller
// @Summary Create lesson progress
// @Tags lesson-progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLessonProgressRequest true "Lesson progress"
// @Success 201 {object} dto.APIResponse{data=dto.LessonProgressResponse} "Progress created"
// @Failure 400 {object} dto.ErrorResponse "Invalid data or already tracked"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessonprogresses [post]
func (c *LessonProgressController) CreateProgress(ctx *gin.Context) {
	var req dto.CreateLessonProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	progress, err := c.progressService.CreateProgress(ctx.Request.Context(), middleware.ActorFromContext(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(progress))
}

// UpdateProgress marks a lesson watched or unwatched
// @Summary Update lesson progress
// @Tags lesson-progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Progress ID"
// @Param request body dto.UpdateLessonProgressRequest true "Watched flag"
// @Success 200 {object} dto.APIResponse{data=dto.LessonProgressResponse} "Progress updated"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Progress not found"
// @Router /lessonprogresses/{id} [put]
// @Router /lessonprogresses/{id} [patch]
func (c *LessonProgressController) UpdateProgress(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "tiến độ học")
	if !ok {
		return
	}

	var req dto.UpdateLessonProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	progress, err := c.progressService.UpdateProgress(ctx.Request.Context(), middleware.ActorFromContext(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(progress))
}

// DeleteProgress removes a progress record
// @Summary Delete lesson progress
// @Tags lesson-progress
// @Security BearerAuth
// @Param id path int true "Progress ID"
// @Success 204 "Progress deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Progress not found"
// @Router /lessonprogresses/{id} [delete]
func (c *LessonProgressController) DeleteProgress(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "tiến độ học")
	if !ok {
		return
	}

	if err := c.progressService.DeleteProgress(ctx.Request.Context(), middleware.ActorFromContext(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
