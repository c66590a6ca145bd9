package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/auth"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/cache"
)

// EnrollmentService manages course enrollments.
type EnrollmentService interface {
	ListEnrollments(ctx context.Context, actor *auth.Actor) ([]dto.EnrollmentResponse, error)
	ListPaidEnrollments(ctx context.Context, actor *auth.Actor) ([]dto.EnrollmentResponse, error)
	GetEnrollment(ctx context.Context, actor *auth.Actor, id int64) (*dto.EnrollmentResponse, error)
	Enroll(ctx context.Context, actor *auth.Actor, req *dto.CreateEnrollmentRequest) (*dto.EnrollmentResponse, error)
	IsEnrolled(ctx context.Context, actor *auth.Actor, courseID int64) (bool, error)
	DeleteEnrollment(ctx context.Context, actor *auth.Actor, id int64) error
}

type enrollmentServiceImpl struct {
	enrollmentRepo repositories.IEnrollmentRepository
	courseRepo     repositories.ICourseRepository
	authzSvc       *auth.AuthorizationService
	cache          cache.Cache
	logger         zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	enrollmentRepo repositories.IEnrollmentRepository,
	courseRepo repositories.ICourseRepository,
	authzSvc *auth.AuthorizationService,
	c cache.Cache,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentServiceImpl{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		authzSvc:       authzSvc,
		cache:          c,
		logger:         logger,
	}
}

// ListEnrollments returns the caller's enrollments, or all of them for anonymous callers.
func (s *enrollmentServiceImpl) ListEnrollments(ctx context.Context, actor *auth.Actor) ([]dto.EnrollmentResponse, error) {
	return s.list(ctx, repositories.EnrollmentFilter{UserID: s.authzSvc.ListScope(actor)})
}

// ListPaidEnrollments is ListEnrollments restricted to paid courses.
func (s *enrollmentServiceImpl) ListPaidEnrollments(ctx context.Context, actor *auth.Actor) ([]dto.EnrollmentResponse, error) {
	return s.list(ctx, repositories.EnrollmentFilter{UserID: s.authzSvc.ListScope(actor), PaidOnly: true})
}

func (s *enrollmentServiceImpl) list(ctx context.Context, filter repositories.EnrollmentFilter) ([]dto.EnrollmentResponse, error) {
	rows, err := s.enrollmentRepo.ListEnrollments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return dto.NewEnrollmentResponses(rows), nil
}

// GetEnrollment returns a single enrollment inside the caller's listing scope.
func (s *enrollmentServiceImpl) GetEnrollment(ctx context.Context, actor *auth.Actor, id int64) (*dto.EnrollmentResponse, error) {
	enrollment, err := s.enrollmentRepo.GetEnrollmentByID(ctx, id)
	if err != nil {
		return nil, withMessage(err, apperrors.ErrEnrollmentNotFound, msgEnrollmentNotFound)
	}
	if scope := s.authzSvc.ListScope(actor); scope != nil && *scope != enrollment.UserID {
		return nil, apperrors.NewCustomError(apperrors.ErrEnrollmentNotFound, msgEnrollmentNotFound)
	}
	resp := dto.NewEnrollmentResponse(enrollment)
	return &resp, nil
}

// Enroll enrolls the caller in a course. A second enrollment in the same course is rejected.
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, actor *auth.Actor, req *dto.CreateEnrollmentRequest) (*dto.EnrollmentResponse, error) {
	if err := s.authzSvc.RequireUser(actor); err != nil {
		return nil, err
	}

	exists, err := s.courseRepo.CourseExists(ctx, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("check course: %w", err)
	}
	if !exists {
		return nil, apperrors.NewCustomError(apperrors.ErrCourseNotFound, msgCourseNotFound)
	}

	enrolled, err := s.enrollmentRepo.IsEnrolled(ctx, actor.UserID, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if enrolled {
		return nil, apperrors.NewCustomError(apperrors.ErrAlreadyEnrolled, msgAlreadyEnrolled)
	}

	enrollment, err := s.enrollmentRepo.CreateEnrollment(ctx, actor.UserID, req.CourseID)
	if err != nil {
		// The unique constraint still guards concurrent requests.
		if errors.Is(err, apperrors.ErrAlreadyEnrolled) {
			return nil, apperrors.NewCustomError(apperrors.ErrAlreadyEnrolled, msgAlreadyEnrolled)
		}
		return nil, withMessage(err, apperrors.ErrCourseNotFound, msgCourseNotFound)
	}

	s.logger.Info().Int64("userID", actor.UserID).Int64("courseID", req.CourseID).Msg("User enrolled in course")
	invalidateStats(ctx, s.cache, s.logger)

	resp := dto.NewEnrollmentResponse(enrollment)
	return &resp, nil
}

func (s *enrollmentServiceImpl) IsEnrolled(ctx context.Context, actor *auth.Actor, courseID int64) (bool, error) {
	if err := s.authzSvc.RequireUser(actor); err != nil {
		return false, err
	}
	enrolled, err := s.enrollmentRepo.IsEnrolled(ctx, actor.UserID, courseID)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return enrolled, nil
}

// DeleteEnrollment removes an enrollment owned by the caller. Admins may remove any.
func (s *enrollmentServiceImpl) DeleteEnrollment(ctx context.Context, actor *auth.Actor, id int64) error {
	if err := s.authzSvc.RequireUser(actor); err != nil {
		return err
	}

	enrollment, err := s.enrollmentRepo.GetEnrollmentByID(ctx, id)
	if err != nil {
		return withMessage(err, apperrors.ErrEnrollmentNotFound, msgEnrollmentNotFound)
	}
	if err := s.authzSvc.ValidateOwnership(actor, enrollment.UserID); err != nil {
		return err
	}

	if err := s.enrollmentRepo.DeleteEnrollment(ctx, id); err != nil {
		return withMessage(err, apperrors.ErrEnrollmentNotFound, msgEnrollmentNotFound)
	}

	s.logger.Info().Int64("enrollmentID", id).Int64("actorID", actor.UserID).Msg("Enrollment deleted")
	invalidateStats(ctx, s.cache, s.logger)
	return nil
}
