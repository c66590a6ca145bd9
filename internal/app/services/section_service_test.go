package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learnhub/internal/app/auth"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
)

func TestSectionsRequireExistingCourse(t *testing.T) {
	courses := newFakeCourseRepo(models.Course{ID: 1, Title: "Go"})
	sections := &fakeSectionRepo{sections: map[int64]*models.Section{}}
	svc := NewSectionService(sections, courses, auth.NewAuthorizationService(), testLogger)
	ctx := context.Background()

	_, err := svc.CreateSection(ctx, admin, &dto.CreateSectionRequest{CourseID: 5, Title: "Intro"})
	assert.True(t, errors.Is(err, apperrors.ErrCourseNotFound))

	_, err = svc.CreateSection(ctx, alice, &dto.CreateSectionRequest{CourseID: 1, Title: "Intro"})
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))

	_, err = svc.CreateSection(ctx, admin, &dto.CreateSectionRequest{CourseID: 1, Title: "Later", Order: 2})
	require.NoError(t, err)
	_, err = svc.CreateSection(ctx, admin, &dto.CreateSectionRequest{CourseID: 1, Title: "First", Order: 1})
	require.NoError(t, err)

	list, err := svc.ListCourseSections(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "First", list[0].Title)

	_, err = svc.ListCourseSections(ctx, 3)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
}

func TestLessonCrud(t *testing.T) {
	sections := &fakeSectionRepo{sections: map[int64]*models.Section{1: {ID: 1, CourseID: 1, Title: "Intro"}}}
	lessons := &fakeLessonRepo{lessons: map[int64]*models.Lesson{}}
	svc := NewLessonService(lessons, sections, auth.NewAuthorizationService(), testLogger)
	ctx := context.Background()

	_, err := svc.CreateLesson(ctx, admin, &dto.CreateLessonRequest{SectionID: 9, Title: "Setup"})
	assert.True(t, errors.Is(err, apperrors.ErrSectionNotFound))

	l, err := svc.CreateLesson(ctx, admin, &dto.CreateLessonRequest{
		SectionID:      1,
		Title:          "Setup",
		VideoURL:       ptr("https://videos.example.com/1"),
		ArticleContent: ptr("   "),
	})
	require.NoError(t, err)
	assert.True(t, l.HasVideo)
	assert.False(t, l.HasArticle)

	l, err = svc.UpdateLesson(ctx, admin, l.ID, &dto.UpdateLessonRequest{ArticleContent: ptr("Read me")})
	require.NoError(t, err)
	assert.True(t, l.HasArticle)
	assert.True(t, l.HasVideo)

	require.NoError(t, svc.DeleteLesson(ctx, admin, l.ID))
	_, err = svc.GetLesson(ctx, l.ID)
	msg, _ := apperrors.UserMessage(err)
	assert.Equal(t, "Bài học không tồn tại.", msg)
}
