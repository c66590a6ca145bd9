package models

import "time"

// Enrollment records that a user joined a course. A user enrolls in a course at most once.
type Enrollment struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	CourseID   int64     `db:"course_id"`
	EnrolledAt time.Time `db:"enrolled_at"`

	Username string
	Course   *Course
}

// LessonProgress is the per-user watched state of a lesson.
type LessonProgress struct {
	ID          int64      `db:"id"`
	UserID      int64      `db:"user_id"`
	LessonID    int64      `db:"lesson_id"`
	Watched     bool       `db:"watched"`
	CompletedAt *time.Time `db:"completed_at"`
}

// MarkWatched updates the watched flag. completed_at is stamped the first time a
// lesson is watched and cleared when it is reset.
func (p *LessonProgress) MarkWatched(watched bool, now time.Time) {
	p.Watched = watched
	if !watched {
		p.CompletedAt = nil
		return
	}
	if p.CompletedAt == nil {
		t := now
		p.CompletedAt = &t
	}
}
