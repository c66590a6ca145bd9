package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/auth"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/cache"
	"github.com/yigit/learnhub/internal/pkg/filestorage"
	"github.com/yigit/learnhub/internal/pkg/helpers"
)

const courseImageDir = "courses"

// CourseService manages the course catalog.
type CourseService interface {
	ListCourses(ctx context.Context) ([]dto.CourseResponse, error)
	GetCourse(ctx context.Context, id int64) (*dto.CourseDetailResponse, error)
	CreateCourse(ctx context.Context, actor *auth.Actor, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	UpdateCourse(ctx context.Context, actor *auth.Actor, id int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	DeleteCourse(ctx context.Context, actor *auth.Actor, id int64) error
	UploadCourseImage(ctx context.Context, actor *auth.Actor, id int64, file *multipart.FileHeader) (*dto.CourseResponse, error)
	ListLatestWithStudents(ctx context.Context, limit int) ([]dto.CourseWithStudentsResponse, error)
}

type courseServiceImpl struct {
	courseRepo  repositories.ICourseRepository
	authzSvc    *auth.AuthorizationService
	fileStorage filestorage.FileStorage
	cache       cache.Cache
	logger      zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo repositories.ICourseRepository,
	authzSvc *auth.AuthorizationService,
	fileStorage filestorage.FileStorage,
	c cache.Cache,
	logger zerolog.Logger,
) CourseService {
	return &courseServiceImpl{
		courseRepo:  courseRepo,
		authzSvc:    authzSvc,
		fileStorage: fileStorage,
		cache:       c,
		logger:      logger,
	}
}

func (s *courseServiceImpl) ListCourses(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.courseRepo.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return dto.NewCourseResponses(courses), nil
}

// GetCourse returns a course with its lesson and enrollment counters.
func (s *courseServiceImpl) GetCourse(ctx context.Context, id int64) (*dto.CourseDetailResponse, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, id)
	if err != nil {
		return nil, withMessage(err, apperrors.ErrCourseNotFound, msgCourseNotFound)
	}

	stats, err := s.courseRepo.GetCourseStats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("course stats: %w", err)
	}

	resp := dto.NewCourseDetailResponse(course, stats)
	return &resp, nil
}

func (s *courseServiceImpl) CreateCourse(ctx context.Context, actor *auth.Actor, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	if err := s.authzSvc.RequireAdmin(actor); err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Image:       helpers.NilIfBlank(req.Image),
		IsPaid:      req.IsPaid,
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if course.Price < 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidPrice, msgInvalidPrice)
	}

	if err := s.courseRepo.CreateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.logger.Info().Int64("courseID", course.ID).Int64("actorID", actor.UserID).Msg("Course created")
	invalidateStats(ctx, s.cache, s.logger)

	resp := dto.NewCourseResponse(course)
	return &resp, nil
}

// UpdateCourse applies the fields present in req.
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, actor *auth.Actor, id int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	if err := s.authzSvc.RequireAdmin(actor); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetCourseByID(ctx, id)
	if err != nil {
		return nil, withMessage(err, apperrors.ErrCourseNotFound, msgCourseNotFound)
	}

	if req.Title != nil {
		course.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Image != nil {
		course.Image = helpers.NilIfBlank(req.Image)
	}
	if req.IsPaid != nil {
		course.IsPaid = *req.IsPaid
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidPrice, msgInvalidPrice)
		}
		course.Price = *req.Price
	}

	if err := s.courseRepo.UpdateCourse(ctx, course); err != nil {
		return nil, withMessage(err, apperrors.ErrCourseNotFound, msgCourseNotFound)
	}

	// Price changes move revenue figures.
	invalidateStats(ctx, s.cache, s.logger)

	resp := dto.NewCourseResponse(course)
	return &resp, nil
}

// DeleteCourse removes the course together with its sections, lessons and enrollments.
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, actor *auth.Actor, id int64) error {
	if err := s.authzSvc.RequireAdmin(actor); err != nil {
		return err
	}

	course, err := s.courseRepo.GetCourseByID(ctx, id)
	if err != nil {
		return withMessage(err, apperrors.ErrCourseNotFound, msgCourseNotFound)
	}

	if err := s.courseRepo.DeleteCourse(ctx, id); err != nil {
		return withMessage(err, apperrors.ErrCourseNotFound, msgCourseNotFound)
	}

	s.removeStoredImage(course.Image)
	s.logger.Info().Int64("courseID", id).Int64("actorID", actor.UserID).Msg("Course deleted")
	invalidateStats(ctx, s.cache, s.logger)
	return nil
}

// UploadCourseImage stores the file and points the course image at it.
func (s *courseServiceImpl) UploadCourseImage(ctx context.Context, actor *auth.Actor, id int64, file *multipart.FileHeader) (*dto.CourseResponse, error) {
	if err := s.authzSvc.RequireAdmin(actor); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetCourseByID(ctx, id)
	if err != nil {
		return nil, withMessage(err, apperrors.ErrCourseNotFound, msgCourseNotFound)
	}

	url, err := s.fileStorage.SaveFileWithPath(file, courseImageDir)
	if err != nil {
		if errors.Is(err, filestorage.ErrUnsupportedFileType) {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, msgInvalidImageFile)
		}
		return nil, fmt.Errorf("save course image: %w", err)
	}

	if err := s.courseRepo.UpdateCourseImage(ctx, id, url); err != nil {
		_ = s.fileStorage.DeleteFile(url)
		return nil, withMessage(err, apperrors.ErrCourseNotFound, msgCourseNotFound)
	}

	s.removeStoredImage(course.Image)
	course.Image = &url

	resp := dto.NewCourseResponse(course)
	return &resp, nil
}

func (s *courseServiceImpl) ListLatestWithStudents(ctx context.Context, limit int) ([]dto.CourseWithStudentsResponse, error) {
	if limit <= 0 {
		limit = helpers.DefaultLatestLimit
	}
	rows, err := s.courseRepo.ListLatestWithStudents(ctx, helpers.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("latest courses: %w", err)
	}
	return dto.NewCourseWithStudentsResponses(rows), nil
}

// removeStoredImage deletes a previously uploaded image. External URLs are left alone.
func (s *courseServiceImpl) removeStoredImage(image *string) {
	if image == nil || !s.fileStorage.Owns(*image) {
		return
	}
	if err := s.fileStorage.DeleteFile(*image); err != nil {
		s.logger.Warn().Err(err).Str("image", *image).Msg("Failed to delete course image")
	}
}
