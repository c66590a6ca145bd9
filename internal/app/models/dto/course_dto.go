package dto

import (
	"time"

	"github.com/yigit/learnhub/internal/app/models"
)

// CreateCourseRequest is the body of POST /courses.
type CreateCourseRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Description string   `json:"description"`
	Image       *string  `json:"image" binding:"omitempty,max=500"`
	IsPaid      bool     `json:"is_paid"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0,lte=99999999.99"`
}

// UpdateCourseRequest applies only the fields present in the body.
type UpdateCourseRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string  `json:"description"`
	Image       *string  `json:"image" binding:"omitempty,max=500"`
	IsPaid      *bool    `json:"is_paid"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0,lte=99999999.99"`
}

// CourseResponse is the list view of a course.
type CourseResponse struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Image          *string   `json:"image"`
	IsPaid         bool      `json:"is_paid"`
	Price          float64   `json:"price" example:"499000"`
	FormattedPrice string    `json:"formatted_price" example:"499,000 VNĐ"`
	CreatedAt      time.Time `json:"created_at"`
}

// CourseDetailResponse adds the derived counters.
type CourseDetailResponse struct {
	CourseResponse
	TotalLessons     int64 `json:"total_lessons"`
	TotalEnrollments int64 `json:"total_enrollments"`
}

// CourseWithStudentsResponse is one row of the latest courses widget.
type CourseWithStudentsResponse struct {
	CourseResponse
	StudentCount int64 `json:"student_count"`
}

// CourseRevenueResponse is one row of the top revenue ranking.
type CourseRevenueResponse struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Price            float64 `json:"price"`
	TotalEnrollments int64   `json:"total_enrollments"`
	TotalRevenue     float64 `json:"total_revenue"`
}

func NewCourseResponse(c *models.Course) CourseResponse {
	return CourseResponse{
		ID:             c.ID,
		Title:          c.Title,
		Description:    c.Description,
		Image:          c.Image,
		IsPaid:         c.IsPaid,
		Price:          c.Price,
		FormattedPrice: models.FormatVND(c.Price),
		CreatedAt:      c.CreatedAt,
	}
}

func NewCourseDetailResponse(c *models.Course, stats models.CourseStats) CourseDetailResponse {
	return CourseDetailResponse{
		CourseResponse:   NewCourseResponse(c),
		TotalLessons:     stats.TotalLessons,
		TotalEnrollments: stats.TotalEnrollments,
	}
}

func NewCourseResponses(courses []models.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, NewCourseResponse(&courses[i]))
	}
	return out
}

func NewCourseWithStudentsResponses(rows []models.CourseWithStudents) []CourseWithStudentsResponse {
	out := make([]CourseWithStudentsResponse, 0, len(rows))
	for i := range rows {
		out = append(out, CourseWithStudentsResponse{
			CourseResponse: NewCourseResponse(&rows[i].Course),
			StudentCount:   rows[i].StudentCount,
		})
	}
	return out
}

func NewCourseRevenueResponses(rows []models.CourseRevenue) []CourseRevenueResponse {
	out := make([]CourseRevenueResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, CourseRevenueResponse{
			ID:               r.CourseID,
			Title:            r.Title,
			Price:            r.Price,
			TotalEnrollments: r.TotalEnrollments,
			TotalRevenue:     r.TotalRevenue,
		})
	}
	return out
}
