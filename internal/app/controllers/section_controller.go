package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/services"
	"github.com/yigit/learnhub/internal/middleware"
	"github.com/yigit/learnhub/internal/pkg/helpers"
)

// SectionController handles course sections
type SectionController struct {
	sectionService services.SectionService
	lessonService  services.LessonService
}

// NewSectionController creates a new SectionController
func NewSectionController(sectionService services.SectionService, lessonService services.LessonService) *SectionController {
	return &SectionController{sectionService: sectionService, lessonService: lessonService}
}

// ListSections lists sections, optionally filtered by course
// @Summary List sections
// @Tags sections
// @Produce json
// @Param course query int false "Filter by course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.SectionResponse} "Sections retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course filter"
// @Router /sections [get]
func (c *SectionController) ListSections(ctx *gin.Context) {
	courseID, ok := helpers.ParseOptionalIDQuery(ctx, "course")
	if !ok {
		invalidQuery(ctx, "course")
		return
	}

	sections, err := c.sectionService.ListSections(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(sections))
}

// ListCourseSections lists a course's sections in display order
// @Summary List course sections
// @Tags sections
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.SectionResponse} "Sections retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/sections [get]
func (c *SectionController) ListCourseSections(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id", "khóa học")
	if !ok {
		return
	}

	sections, err := c.sectionService.ListCourseSections(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(sections))
}

// ListCourseSectionsWithLessons lists a course's sections with their lessons
// @Summary Course curriculum
// @Tags sections
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.SectionWithLessonsResponse} "Curriculum retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/sections-with-lessons [get]
func (c *SectionController) ListCourseSectionsWithLessons(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id", "khóa học")
	if !ok {
		return
	}

	sections, err := c.sectionService.ListCourseSectionsWithLessons(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(sections))
}

// GetSection retrieves a section
// @Summary Get section by ID
// @Tags sections
// @Produce json
// @Param id path int true "Section ID"
// @Success 200 {object} dto.APIResponse{data=dto.SectionResponse} "Section retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Router /sections/{id} [get]
func (c *SectionController) GetSection(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "chương")
	if !ok {
		return
	}

	section, err := c.sectionService.GetSection(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(section))
}

// ListSectionLessons lists the lessons of a section
// @Summary List section lessons
// @Tags sections
// @Produce json
// @Param id path int true "Section ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.LessonResponse} "Lessons retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Router /sections/{id}/lessons [get]
func (c *SectionController) ListSectionLessons(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "chương")
	if !ok {
		return
	}

	lessons, err := c.lessonService.ListSectionLessons(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(lessons))
}

// CreateSection creates a section in an existing course
// @Summary Create a section
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSectionRequest true "Section information"
// @Success 201 {object} dto.APIResponse{data=dto.SectionResponse} "Section created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /sections [post]
func (c *SectionController) CreateSection(ctx *gin.Context) {
	var req dto.CreateSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	section, err := c.sectionService.CreateSection(ctx.Request.Context(), middleware.ActorFromContext(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(section))
}

// UpdateSection updates a section
// @Summary Update a section
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID"
// @Param request body dto.UpdateSectionRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.SectionResponse} "Section updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Section or course not found"
// @Router /sections/{id} [put]
// @Router /sections/{id} [patch]
func (c *SectionController) UpdateSection(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "chương")
	if !ok {
		return
	}

	var req dto.UpdateSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	section, err := c.sectionService.UpdateSection(ctx.Request.Context(), middleware.ActorFromContext(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(section))
}

// DeleteSection deletes a section and its lessons
// @Summary Delete a section
// @Tags sections
// @Security BearerAuth
// @Param id path int true "Section ID"
// @Success 204 "Section deleted"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Router /sections/{id} [delete]
func (c *SectionController) DeleteSection(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "chương")
	if !ok {
		return
	}

	if err := c.sectionService.DeleteSection(ctx.Request.Context(), middleware.ActorFromContext(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
