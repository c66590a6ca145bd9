package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learnhub/internal/app/auth"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
)

func ptr[T any](v T) *T { return &v }

func newCourseFixture() (CourseService, *fakeCourseRepo, *fakeStorage, *memCache) {
	repo := newFakeCourseRepo(models.Course{ID: 1, Title: "Docker", Price: 200000, IsPaid: true})
	storage := &fakeStorage{}
	c := newMemCache()
	return NewCourseService(repo, auth.NewAuthorizationService(), storage, c, testLogger), repo, storage, c
}

func TestCreateCourseRequiresAdmin(t *testing.T) {
	svc, repo, _, _ := newCourseFixture()
	ctx := context.Background()
	req := &dto.CreateCourseRequest{Title: "Kubernetes", Price: ptr(1500000.0), IsPaid: true}

	_, err := svc.CreateCourse(ctx, anonymous, req)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))

	_, err = svc.CreateCourse(ctx, alice, req)
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	assert.Len(t, repo.courses, 1)

	created, err := svc.CreateCourse(ctx, admin, req)
	require.NoError(t, err)
	assert.Equal(t, "1,500,000 VNĐ", created.FormattedPrice)
	assert.Len(t, repo.courses, 2)
}

func TestCreateCourseRejectsNegativePrice(t *testing.T) {
	svc, _, _, _ := newCourseFixture()

	_, err := svc.CreateCourse(context.Background(), admin, &dto.CreateCourseRequest{Title: "X", Price: ptr(-1.0)})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidPrice))
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
}

func TestUpdateCourseIsPartial(t *testing.T) {
	svc, repo, _, c := newCourseFixture()

	updated, err := svc.UpdateCourse(context.Background(), admin, 1, &dto.UpdateCourseRequest{Price: ptr(250000.0)})
	require.NoError(t, err)
	assert.Equal(t, "Docker", updated.Title)
	assert.Equal(t, 250000.0, repo.courses[1].Price)
	assert.True(t, repo.courses[1].IsPaid)
	assert.Contains(t, c.deleted, cacheKeyCourseRevenue)

	_, err = svc.UpdateCourse(context.Background(), admin, 9, &dto.UpdateCourseRequest{})
	assert.True(t, errors.Is(err, apperrors.ErrCourseNotFound))
}

func TestGetCourseDetail(t *testing.T) {
	svc, _, _, _ := newCourseFixture()

	detail, err := svc.GetCourse(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), detail.TotalLessons)
	assert.Equal(t, int64(2), detail.TotalEnrollments)
	assert.Equal(t, "200,000 VNĐ", detail.FormattedPrice)

	_, err = svc.GetCourse(context.Background(), 2)
	msg, _ := apperrors.UserMessage(err)
	assert.Equal(t, "Khóa học không tồn tại.", msg)
}

func TestUploadCourseImageReplacesStoredFile(t *testing.T) {
	svc, repo, storage, _ := newCourseFixture()
	ctx := context.Background()

	first, err := svc.UploadCourseImage(ctx, admin, 1, &multipart.FileHeader{Filename: "cover.png"})
	require.NoError(t, err)
	require.NotNil(t, first.Image)
	assert.Equal(t, "/media/courses/cover.png", *first.Image)

	_, err = svc.UploadCourseImage(ctx, admin, 1, &multipart.FileHeader{Filename: "cover2.png"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/media/courses/cover.png"}, storage.deleted)
	assert.Equal(t, "/media/courses/cover2.png", *repo.courses[1].Image)
}

func TestDeleteCourseKeepsExternalImage(t *testing.T) {
	svc, repo, storage, _ := newCourseFixture()
	repo.courses[1].Image = ptr("https://cdn.example.com/docker.png")

	require.NoError(t, svc.DeleteCourse(context.Background(), admin, 1))
	assert.Empty(t, repo.courses)
	assert.Empty(t, storage.deleted)
}

func TestLatestWithStudentsClampsLimit(t *testing.T) {
	svc, repo, _, _ := newCourseFixture()
	for i := 0; i < 60; i++ {
		require.NoError(t, repo.CreateCourse(context.Background(), &models.Course{Title: "C"}))
	}

	rows, err := svc.ListLatestWithStudents(context.Background(), 500)
	require.NoError(t, err)
	assert.Len(t, rows, 50)

	rows, err = svc.ListLatestWithStudents(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}
