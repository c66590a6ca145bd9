package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/auth"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/helpers"
)

// LessonService manages lessons inside sections.
type LessonService interface {
	ListLessons(ctx context.Context, sectionID *int64) ([]dto.LessonResponse, error)
	ListSectionLessons(ctx context.Context, sectionID int64) ([]dto.LessonResponse, error)
	GetLesson(ctx context.Context, id int64) (*dto.LessonResponse, error)
	CreateLesson(ctx context.Context, actor *auth.Actor, req *dto.CreateLessonRequest) (*dto.LessonResponse, error)
	UpdateLesson(ctx context.Context, actor *auth.Actor, id int64, req *dto.UpdateLessonRequest) (*dto.LessonResponse, error)
	DeleteLesson(ctx context.Context, actor *auth.Actor, id int64) error
}

type lessonServiceImpl struct {
	lessonRepo  repositories.ILessonRepository
	sectionRepo repositories.ISectionRepository
	authzSvc    *auth.AuthorizationService
	logger      zerolog.Logger
}

// NewLessonService creates a new LessonService
func NewLessonService(
	lessonRepo repositories.ILessonRepository,
	sectionRepo repositories.ISectionRepository,
	authzSvc *auth.AuthorizationService,
	logger zerolog.Logger,
) LessonService {
	return &lessonServiceImpl{
		lessonRepo:  lessonRepo,
		sectionRepo: sectionRepo,
		authzSvc:    authzSvc,
		logger:      logger,
	}
}

func (s *lessonServiceImpl) ListLessons(ctx context.Context, sectionID *int64) ([]dto.LessonResponse, error) {
	lessons, err := s.lessonRepo.ListLessons(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return dto.NewLessonResponses(lessons), nil
}

func (s *lessonServiceImpl) ListSectionLessons(ctx context.Context, sectionID int64) ([]dto.LessonResponse, error) {
	if err := s.ensureSection(ctx, sectionID); err != nil {
		return nil, err
	}
	return s.ListLessons(ctx, &sectionID)
}

func (s *lessonServiceImpl) GetLesson(ctx context.Context, id int64) (*dto.LessonResponse, error) {
	lesson, err := s.lessonRepo.GetLessonByID(ctx, id)
	if err != nil {
		return nil, withMessage(err, apperrors.ErrLessonNotFound, msgLessonNotFound)
	}
	resp := dto.NewLessonResponse(lesson)
	return &resp, nil
}

func (s *lessonServiceImpl) CreateLesson(ctx context.Context, actor *auth.Actor, req *dto.CreateLessonRequest) (*dto.LessonResponse, error) {
	if err := s.authzSvc.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.ensureSection(ctx, req.SectionID); err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		SectionID:      req.SectionID,
		Title:          strings.TrimSpace(req.Title),
		VideoURL:       helpers.NilIfBlank(req.VideoURL),
		ArticleContent: helpers.NilIfBlank(req.ArticleContent),
		Order:          req.Order,
	}
	if err := s.lessonRepo.CreateLesson(ctx, lesson); err != nil {
		return nil, withMessage(err, apperrors.ErrSectionNotFound, msgSectionNotFound)
	}

	s.logger.Debug().Int64("lessonID", lesson.ID).Int64("sectionID", lesson.SectionID).Msg("Lesson created")
	resp := dto.NewLessonResponse(lesson)
	return &resp, nil
}

func (s *lessonServiceImpl) UpdateLesson(ctx context.Context, actor *auth.Actor, id int64, req *dto.UpdateLessonRequest) (*dto.LessonResponse, error) {
	if err := s.authzSvc.RequireAdmin(actor); err != nil {
		return nil, err
	}

	lesson, err := s.lessonRepo.GetLessonByID(ctx, id)
	if err != nil {
		return nil, withMessage(err, apperrors.ErrLessonNotFound, msgLessonNotFound)
	}

	if req.SectionID != nil && *req.SectionID != lesson.SectionID {
		if err := s.ensureSection(ctx, *req.SectionID); err != nil {
			return nil, err
		}
		lesson.SectionID = *req.SectionID
	}
	if req.Title != nil {
		lesson.Title = strings.TrimSpace(*req.Title)
	}
	if req.VideoURL != nil {
		lesson.VideoURL = helpers.NilIfBlank(req.VideoURL)
	}
	if req.ArticleContent != nil {
		lesson.ArticleContent = helpers.NilIfBlank(req.ArticleContent)
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}

	if err := s.lessonRepo.UpdateLesson(ctx, lesson); err != nil {
		err = withMessage(err, apperrors.ErrSectionNotFound, msgSectionNotFound)
		return nil, withMessage(err, apperrors.ErrLessonNotFound, msgLessonNotFound)
	}

	resp := dto.NewLessonResponse(lesson)
	return &resp, nil
}

func (s *lessonServiceImpl) DeleteLesson(ctx context.Context, actor *auth.Actor, id int64) error {
	if err := s.authzSvc.RequireAdmin(actor); err != nil {
		return err
	}
	if err := s.lessonRepo.DeleteLesson(ctx, id); err != nil {
		return withMessage(err, apperrors.ErrLessonNotFound, msgLessonNotFound)
	}
	return nil
}

func (s *lessonServiceImpl) ensureSection(ctx context.Context, sectionID int64) error {
	ok, err := s.sectionRepo.SectionExists(ctx, sectionID)
	if err != nil {
		return fmt.Errorf("check section: %w", err)
	}
	if !ok {
		return apperrors.NewCustomError(apperrors.ErrSectionNotFound, msgSectionNotFound)
	}
	return nil
}
