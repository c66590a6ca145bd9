package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/services"
	"github.com/yigit/learnhub/internal/middleware"
	"github.com/yigit/learnhub/internal/pkg/helpers"
)

// StatsController serves the revenue ranking and the dashboard counters
type StatsController struct {
	statsService services.StatsService
}

// NewStatsController creates a new StatsController
func NewStatsController(statsService services.StatsService) *StatsController {
	return &StatsController{statsService: statsService}
}

// TopRevenue ranks courses by revenue
// @Summary Top courses by revenue
// @Description Revenue is the course price times its enrollment count
// @Tags stats
// @Produce json
// @Param top query int false "Number of courses to return"
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseRevenueResponse} "Ranking retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "top must be a positive integer"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/top-revenue [get]
func (c *StatsController) TopRevenue(ctx *gin.Context) {
	top, ok := helpers.ParsePositiveQuery(ctx, "top", 0)
	if !ok {
		invalidQuery(ctx, "top")
		return
	}

	rows, err := c.statsService.TopRevenue(ctx.Request.Context(), top)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rows))
}

// Dashboard returns weekly and monthly counters
// @Summary Dashboard statistics
// @Tags stats
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.DashboardStatsResponse} "Statistics retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard/stats [get]
func (c *StatsController) Dashboard(ctx *gin.Context) {
	stats, err := c.statsService.Dashboard(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(stats))
}
