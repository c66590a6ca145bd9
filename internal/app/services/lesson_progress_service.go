package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/auth"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
)

// LessonProgressService tracks which lessons a user has watched.
type LessonProgressService interface {
	ListProgress(ctx context.Context, actor *auth.Actor) ([]dto.LessonProgressResponse, error)
	GetProgress(ctx context.Context, actor *auth.Actor, id int64) (*dto.LessonProgressResponse, error)
	CreateProgress(ctx context.Context, actor *auth.Actor, req *dto.CreateLessonProgressRequest) (*dto.LessonProgressResponse, error)
	UpdateProgress(ctx context.Context, actor *auth.Actor, id int64, req *dto.UpdateLessonProgressRequest) (*dto.LessonProgressResponse, error)
	DeleteProgress(ctx context.Context, actor *auth.Actor, id int64) error
}

type lessonProgressServiceImpl struct {
	progressRepo repositories.ILessonProgressRepository
	lessonRepo   repositories.ILessonRepository
	authzSvc     *auth.AuthorizationService
	now          Clock
	logger       zerolog.Logger
}

// NewLessonProgressService creates a new LessonProgressService
func NewLessonProgressService(
	progressRepo repositories.ILessonProgressRepository,
	lessonRepo repositories.ILessonRepository,
	authzSvc *auth.AuthorizationService,
	now Clock,
	logger zerolog.Logger,
) LessonProgressService {
	return &lessonProgressServiceImpl{
		progressRepo: progressRepo,
		lessonRepo:   lessonRepo,
		authzSvc:     authzSvc,
		now:          now,
		logger:       logger,
	}
}

func (s *lessonProgressServiceImpl) ListProgress(ctx context.Context, actor *auth.Actor) ([]dto.LessonProgressResponse, error) {
	rows, err := s.progressRepo.ListProgress(ctx, s.authzSvc.ListScope(actor))
	if err != nil {
		return nil, fmt.Errorf("list lesson progress: %w", err)
	}
	return dto.NewLessonProgressResponses(rows), nil
}

func (s *lessonProgressServiceImpl) GetProgress(ctx context.Context, actor *auth.Actor, id int64) (*dto.LessonProgressResponse, error) {
	progress, err := s.progressRepo.GetProgressByID(ctx, id)
	if err != nil {
		return nil, withMessage(err, apperrors.ErrProgressNotFound, msgProgressNotFound)
	}
	if scope := s.authzSvc.ListScope(actor); scope != nil && *scope != progress.UserID {
		return nil, apperrors.NewCustomError(apperrors.ErrProgressNotFound, msgProgressNotFound)
	}
	resp := dto.NewLessonProgressResponse(progress)
	return &resp, nil
}

// CreateProgress starts tracking a lesson for the caller. Each lesson is tracked once per user.
func (s *lessonProgressServiceImpl) CreateProgress(ctx context.Context, actor *auth.Actor, req *dto.CreateLessonProgressRequest) (*dto.LessonProgressResponse, error) {
	if err := s.authzSvc.RequireUser(actor); err != nil {
		return nil, err
	}

	ok, err := s.lessonRepo.LessonExists(ctx, req.LessonID)
	if err != nil {
		return nil, fmt.Errorf("check lesson: %w", err)
	}
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrLessonNotFound, msgLessonNotFound)
	}

	progress := &models.LessonProgress{UserID: actor.UserID, LessonID: req.LessonID}
	progress.MarkWatched(req.Watched, s.now())

	if err := s.progressRepo.CreateProgress(ctx, progress); err != nil {
		err = withMessage(err, apperrors.ErrLessonNotFound, msgLessonNotFound)
		return nil, withMessage(err, apperrors.ErrProgressAlreadyTracked, msgProgressExists)
	}

	resp := dto.NewLessonProgressResponse(progress)
	return &resp, nil
}

func (s *lessonProgressServiceImpl) UpdateProgress(ctx context.Context, actor *auth.Actor, id int64, req *dto.UpdateLessonProgressRequest) (*dto.LessonProgressResponse, error) {
	progress, err := s.ownedProgress(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	progress.MarkWatched(*req.Watched, s.now())
	if err := s.progressRepo.UpdateProgress(ctx, progress); err != nil {
		return nil, withMessage(err, apperrors.ErrProgressNotFound, msgProgressNotFound)
	}

	s.logger.Debug().Int64("progressID", id).Bool("watched", progress.Watched).Msg("Lesson progress updated")
	resp := dto.NewLessonProgressResponse(progress)
	return &resp, nil
}

func (s *lessonProgressServiceImpl) DeleteProgress(ctx context.Context, actor *auth.Actor, id int64) error {
	if _, err := s.ownedProgress(ctx, actor, id); err != nil {
		return err
	}
	if err := s.progressRepo.DeleteProgress(ctx, id); err != nil {
		return withMessage(err, apperrors.ErrProgressNotFound, msgProgressNotFound)
	}
	return nil
}

func (s *lessonProgressServiceImpl) ownedProgress(ctx context.Context, actor *auth.Actor, id int64) (*models.LessonProgress, error) {
	if err := s.authzSvc.RequireUser(actor); err != nil {
		return nil, err
	}
	progress, err := s.progressRepo.GetProgressByID(ctx, id)
	if err != nil {
		return nil, withMessage(err, apperrors.ErrProgressNotFound, msgProgressNotFound)
	}
	if err := s.authzSvc.ValidateOwnership(actor, progress.UserID); err != nil {
		return nil, err
	}
	return progress, nil
}
