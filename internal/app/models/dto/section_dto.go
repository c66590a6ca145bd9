package dto

import "github.com/yigit/learnhub/internal/app/models"

type CreateSectionRequest struct {
	CourseID int64  `json:"course" binding:"required,min=1"`
	Title    string `json:"title" binding:"required,max=255"`
	Order    int    `json:"order"`
}

type UpdateSectionRequest struct {
	CourseID *int64  `json:"course" binding:"omitempty,min=1"`
	Title    *string `json:"title" binding:"omitempty,min=1,max=255"`
	Order    *int    `json:"order"`
}

type SectionResponse struct {
	ID       int64  `json:"id"`
	CourseID int64  `json:"course"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
}

// SectionWithLessonsResponse nests the section's lessons.
type SectionWithLessonsResponse struct {
	SectionResponse
	Lessons []LessonResponse `json:"lessons"`
}

type CreateLessonRequest struct {
	SectionID      int64   `json:"section" binding:"required,min=1"`
	Title          string  `json:"title" binding:"required,max=255"`
	VideoURL       *string `json:"video_url" binding:"omitempty,url,max=500"`
	ArticleContent *string `json:"article_content"`
	Order          int     `json:"order"`
}

type UpdateLessonRequest struct {
	SectionID      *int64  `json:"section" binding:"omitempty,min=1"`
	Title          *string `json:"title" binding:"omitempty,min=1,max=255"`
	VideoURL       *string `json:"video_url" binding:"omitempty,url,max=500"`
	ArticleContent *string `json:"article_content"`
	Order          *int    `json:"order"`
}

type LessonResponse struct {
	ID             int64   `json:"id"`
	SectionID      int64   `json:"section"`
	Title          string  `json:"title"`
	VideoURL       *string `json:"video_url"`
	ArticleContent *string `json:"article_content"`
	Order          int     `json:"order"`
	HasVideo       bool    `json:"has_video"`
	HasArticle     bool    `json:"has_article"`
}

func NewSectionResponse(s *models.Section) SectionResponse {
	return SectionResponse{ID: s.ID, CourseID: s.CourseID, Title: s.Title, Order: s.Order}
}

func NewSectionResponses(sections []models.Section) []SectionResponse {
	out := make([]SectionResponse, 0, len(sections))
	for i := range sections {
		out = append(out, NewSectionResponse(&sections[i]))
	}
	return out
}

func NewSectionWithLessonsResponses(sections []models.Section) []SectionWithLessonsResponse {
	out := make([]SectionWithLessonsResponse, 0, len(sections))
	for i := range sections {
		out = append(out, SectionWithLessonsResponse{
			SectionResponse: NewSectionResponse(&sections[i]),
			Lessons:         NewLessonResponses(sections[i].Lessons),
		})
	}
	return out
}

func NewLessonResponse(l *models.Lesson) LessonResponse {
	return LessonResponse{
		ID:             l.ID,
		SectionID:      l.SectionID,
		Title:          l.Title,
		VideoURL:       l.VideoURL,
		ArticleContent: l.ArticleContent,
		Order:          l.Order,
		HasVideo:       l.HasVideo(),
		HasArticle:     l.HasArticle(),
	}
}

func NewLessonResponses(lessons []models.Lesson) []LessonResponse {
	out := make([]LessonResponse, 0, len(lessons))
	for i := range lessons {
		out = append(out, NewLessonResponse(&lessons[i]))
	}
	return out
}
