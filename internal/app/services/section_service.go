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
)

// SectionService manages course sections.
type SectionService interface {
	ListSections(ctx context.Context, courseID *int64) ([]dto.SectionResponse, error)
	ListCourseSections(ctx context.Context, courseID int64) ([]dto.SectionResponse, error)
	ListCourseSectionsWithLessons(ctx context.Context, courseID int64) ([]dto.SectionWithLessonsResponse, error)
	GetSection(ctx context.Context, id int64) (*dto.SectionResponse, error)
	CreateSection(ctx context.Context, actor *auth.Actor, req *dto.CreateSectionRequest) (*dto.SectionResponse, error)
	UpdateSection(ctx context.Context, actor *auth.Actor, id int64, req *dto.UpdateSectionRequest) (*dto.SectionResponse, error)
	DeleteSection(ctx context.Context, actor *auth.Actor, id int64) error
}

type sectionServiceImpl struct {
	sectionRepo repositories.ISectionRepository
	courseRepo  repositories.ICourseRepository
	authzSvc    *auth.AuthorizationService
	logger      zerolog.Logger
}

// NewSectionService creates a new SectionService
func NewSectionService(
	sectionRepo repositories.ISectionRepository,
	courseRepo repositories.ICourseRepository,
	authzSvc *auth.AuthorizationService,
	logger zerolog.Logger,
) SectionService {
	return &sectionServiceImpl{
		sectionRepo: sectionRepo,
		courseRepo:  courseRepo,
		authzSvc:    authzSvc,
		logger:      logger,
	}
}

func (s *sectionServiceImpl) ListSections(ctx context.Context, courseID *int64) ([]dto.SectionResponse, error) {
	sections, err := s.sectionRepo.ListSections(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return dto.NewSectionResponses(sections), nil
}

// ListCourseSections lists the sections of an existing course.
func (s *sectionServiceImpl) ListCourseSections(ctx context.Context, courseID int64) ([]dto.SectionResponse, error) {
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return nil, err
	}
	return s.ListSections(ctx, &courseID)
}

func (s *sectionServiceImpl) ListCourseSectionsWithLessons(ctx context.Context, courseID int64) ([]dto.SectionWithLessonsResponse, error) {
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return nil, err
	}
	sections, err := s.sectionRepo.ListSectionsWithLessons(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list sections with lessons: %w", err)
	}
	return dto.NewSectionWithLessonsResponses(sections), nil
}

func (s *sectionServiceImpl) GetSection(ctx context.Context, id int64) (*dto.SectionResponse, error) {
	section, err := s.sectionRepo.GetSectionByID(ctx, id)
	if err != nil {
		return nil, withMessage(err, apperrors.ErrSectionNotFound, msgSectionNotFound)
	}
	resp := dto.NewSectionResponse(section)
	return &resp, nil
}

func (s *sectionServiceImpl) CreateSection(ctx context.Context, actor *auth.Actor, req *dto.CreateSectionRequest) (*dto.SectionResponse, error) {
	if err := s.authzSvc.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.ensureCourse(ctx, req.CourseID); err != nil {
		return nil, err
	}

	section := &models.Section{
		CourseID: req.CourseID,
		Title:    strings.TrimSpace(req.Title),
		Order:    req.Order,
	}
	if err := s.sectionRepo.CreateSection(ctx, section); err != nil {
		return nil, withMessage(err, apperrors.ErrCourseNotFound, msgCourseNotFound)
	}

	s.logger.Debug().Int64("sectionID", section.ID).Int64("courseID", section.CourseID).Msg("Section created")
	resp := dto.NewSectionResponse(section)
	return &resp, nil
}

func (s *sectionServiceImpl) UpdateSection(ctx context.Context, actor *auth.Actor, id int64, req *dto.UpdateSectionRequest) (*dto.SectionResponse, error) {
	if err := s.authzSvc.RequireAdmin(actor); err != nil {
		return nil, err
	}

	section, err := s.sectionRepo.GetSectionByID(ctx, id)
	if err != nil {
		return nil, withMessage(err, apperrors.ErrSectionNotFound, msgSectionNotFound)
	}

	if req.CourseID != nil && *req.CourseID != section.CourseID {
		if err := s.ensureCourse(ctx, *req.CourseID); err != nil {
			return nil, err
		}
		section.CourseID = *req.CourseID
	}
	if req.Title != nil {
		section.Title = strings.TrimSpace(*req.Title)
	}
	if req.Order != nil {
		section.Order = *req.Order
	}

	if err := s.sectionRepo.UpdateSection(ctx, section); err != nil {
		err = withMessage(err, apperrors.ErrCourseNotFound, msgCourseNotFound)
		return nil, withMessage(err, apperrors.ErrSectionNotFound, msgSectionNotFound)
	}

	resp := dto.NewSectionResponse(section)
	return &resp, nil
}

// DeleteSection removes the section and its lessons.
func (s *sectionServiceImpl) DeleteSection(ctx context.Context, actor *auth.Actor, id int64) error {
	if err := s.authzSvc.RequireAdmin(actor); err != nil {
		return err
	}
	if err := s.sectionRepo.DeleteSection(ctx, id); err != nil {
		return withMessage(err, apperrors.ErrSectionNotFound, msgSectionNotFound)
	}
	s.logger.Debug().Int64("sectionID", id).Msg("Section deleted")
	return nil
}

func (s *sectionServiceImpl) ensureCourse(ctx context.Context, courseID int64) error {
	ok, err := s.courseRepo.CourseExists(ctx, courseID)
	if err != nil {
		return fmt.Errorf("check course: %w", err)
	}
	if !ok {
		return apperrors.NewCustomError(apperrors.ErrCourseNotFound, msgCourseNotFound)
	}
	return nil
}
