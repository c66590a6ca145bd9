package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatVND(t *testing.T) {
	assert.Equal(t, "0 VNĐ", FormatVND(0))
	assert.Equal(t, "999 VNĐ", FormatVND(999))
	assert.Equal(t, "1,000 VNĐ", FormatVND(1000))
	assert.Equal(t, "1,500,000 VNĐ", FormatVND(1500000))
	assert.Equal(t, "200,000 VNĐ", FormatVND(199999.5))
}

func TestRoleFromGroups(t *testing.T) {
	assert.Equal(t, RoleUser, RoleFromGroups(nil))
	assert.Equal(t, "admin", RoleFromGroups([]string{"admin", "editor"}))
	assert.Equal(t, "editor", RoleFromGroups([]string{"editor", "admin"}))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin(true, RoleUser))
	assert.True(t, IsAdmin(false, RoleAdmin))
	assert.False(t, IsAdmin(false, RoleUser))
}

func TestLessonContentFlags(t *testing.T) {
	video := "https://videos.example.com/1"
	empty := ""

	l := Lesson{VideoURL: &video, ArticleContent: &empty}
	assert.True(t, l.HasVideo())
	assert.False(t, l.HasArticle())
}

func TestMarkWatched(t *testing.T) {
	first := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	var p LessonProgress
	p.MarkWatched(true, first)
	assert.True(t, p.Watched)
	assert.Equal(t, first, *p.CompletedAt)

	p.MarkWatched(true, later)
	assert.Equal(t, first, *p.CompletedAt, "completion time is kept on repeat watches")

	p.MarkWatched(false, later)
	assert.False(t, p.Watched)
	assert.Nil(t, p.CompletedAt)
}

func TestEventImagePrefersUpload(t *testing.T) {
	url := "https://cdn.example.com/a.png"
	upload := "http://localhost:8080/uploads/events/b.png"

	e := Event{ImageURL: &url}
	assert.Equal(t, url, e.Image())

	e.ImageUpload = &upload
	assert.Equal(t, upload, e.Image())

	assert.Equal(t, "", (&Event{}).Image())
}

func TestEventCategoryIsValid(t *testing.T) {
	assert.True(t, CategoryWebinar.IsValid())
	assert.False(t, EventCategory("party").IsValid())
}
