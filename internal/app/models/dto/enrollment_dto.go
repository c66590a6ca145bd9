package dto

import (
	"time"

	"github.com/yigit/learnhub/internal/app/models"
)

type CreateEnrollmentRequest struct {
	CourseID int64 `json:"course_id" binding:"required,min=1"`
}

// EnrollmentResponse embeds the enrolled course.
type EnrollmentResponse struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	User       string          `json:"user"`
	CourseID   int64           `json:"course_id"`
	Course     *CourseResponse `json:"course,omitempty"`
	EnrolledAt time.Time       `json:"enrolled_at"`
}

type IsEnrolledResponse struct {
	IsEnrolled bool `json:"is_enrolled"`
}

type CreateLessonProgressRequest struct {
	LessonID int64 `json:"lesson_id" binding:"required,min=1"`
	Watched  bool  `json:"watched"`
}

type UpdateLessonProgressRequest struct {
	Watched *bool `json:"watched" binding:"required"`
}

type LessonProgressResponse struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	LessonID    int64      `json:"lesson_id"`
	Watched     bool       `json:"watched"`
	CompletedAt *time.Time `json:"completed_at"`
}

func NewEnrollmentResponse(e *models.Enrollment) EnrollmentResponse {
	resp := EnrollmentResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		User:       e.Username,
		CourseID:   e.CourseID,
		EnrolledAt: e.EnrolledAt,
	}
	if e.Course != nil {
		c := NewCourseResponse(e.Course)
		resp.Course = &c
	}
	return resp
}

func NewEnrollmentResponses(rows []models.Enrollment) []EnrollmentResponse {
	out := make([]EnrollmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewEnrollmentResponse(&rows[i]))
	}
	return out
}

func NewLessonProgressResponse(p *models.LessonProgress) LessonProgressResponse {
	return LessonProgressResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		LessonID:    p.LessonID,
		Watched:     p.Watched,
		CompletedAt: p.CompletedAt,
	}
}

func NewLessonProgressResponses(rows []models.LessonProgress) []LessonProgressResponse {
	out := make([]LessonProgressResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewLessonProgressResponse(&rows[i]))
	}
	return out
}
