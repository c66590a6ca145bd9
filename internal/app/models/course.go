package models

import (
	"math"
	"strconv"
	"time"
)

// Course is a purchasable or free course.
type Course struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Image       *string   `db:"image"`
	IsPaid      bool      `db:"is_paid"`
	Price       float64   `db:"price"`
	CreatedAt   time.Time `db:"created_at"`
}

// CourseStats holds the counters shown on the course detail page.
type CourseStats struct {
	TotalLessons     int64
	TotalEnrollments int64
}

// CourseWithStudents pairs a course with its enrollment count.
type CourseWithStudents struct {
	Course
	StudentCount int64
}

// Section groups lessons inside a course. Order is a display hint only.
type Section struct {
	ID       int64  `db:"id"`
	CourseID int64  `db:"course_id"`
	Title    string `db:"title"`
	Order    int    `db:"order"`

	Lessons []Lesson
}

// Lesson is a video and/or article inside a section.
type Lesson struct {
	ID             int64   `db:"id"`
	SectionID      int64   `db:"section_id"`
	Title          string  `db:"title"`
	VideoURL       *string `db:"video_url"`
	ArticleContent *string `db:"article_content"`
	Order          int     `db:"order"`
}

func (l *Lesson) HasVideo() bool {
	return l.VideoURL != nil && *l.VideoURL != ""
}

func (l *Lesson) HasArticle() bool {
	return l.ArticleContent != nil && *l.ArticleContent != ""
}

// FormatVND renders an amount rounded to whole units with comma thousands
// separators followed by the currency, e.g. 1500000 => "1,500,000 VNĐ".
func FormatVND(amount float64) string {
	n := int64(math.Round(amount))
	neg := n < 0
	if neg {
		n = -n
	}

	digits := strconv.FormatInt(n, 10)
	out := make([]byte, 0, len(digits)+len(digits)/3+1)
	if neg {
		out = append(out, '-')
	}
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	return string(out) + " VNĐ"
}
