package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/auth"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/filestorage"
	"github.com/yigit/learnhub/internal/pkg/helpers"
)

const eventImageDir = "events"

// EventService manages events.
type EventService interface {
	ListEvents(ctx context.Context, category string) ([]dto.EventResponse, error)
	GetEvent(ctx context.Context, id int64) (*dto.EventResponse, error)
	CreateEvent(ctx context.Context, actor *auth.Actor, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	UpdateEvent(ctx context.Context, actor *auth.Actor, id int64, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	DeleteEvent(ctx context.Context, actor *auth.Actor, id int64) error
	UploadEventImage(ctx context.Context, actor *auth.Actor, id int64, file *multipart.FileHeader) (*dto.EventResponse, error)
}

type eventServiceImpl struct {
	eventRepo   repositories.IEventRepository
	authzSvc    *auth.AuthorizationService
	fileStorage filestorage.FileStorage
	logger      zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo repositories.IEventRepository,
	authzSvc *auth.AuthorizationService,
	fileStorage filestorage.FileStorage,
	logger zerolog.Logger,
) EventService {
	return &eventServiceImpl{
		eventRepo:   eventRepo,
		authzSvc:    authzSvc,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

// ListEvents lists events, optionally restricted to one category.
func (s *eventServiceImpl) ListEvents(ctx context.Context, category string) ([]dto.EventResponse, error) {
	var filter *models.EventCategory
	if category != "" {
		c, err := parseCategory(category)
		if err != nil {
			return nil, err
		}
		filter = &c
	}

	events, err := s.eventRepo.ListEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return dto.NewEventResponses(events), nil
}

func (s *eventServiceImpl) GetEvent(ctx context.Context, id int64) (*dto.EventResponse, error) {
	event, err := s.eventRepo.GetEventByID(ctx, id)
	if err != nil {
		return nil, withMessage(err, apperrors.ErrEventNotFound, msgEventNotFound)
	}
	resp := dto.NewEventResponse(event)
	return &resp, nil
}

func (s *eventServiceImpl) CreateEvent(ctx context.Context, actor *auth.Actor, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if err := s.authzSvc.RequireAdmin(actor); err != nil {
		return nil, err
	}

	date, err := parseEventDate(req.Date)
	if err != nil {
		return nil, err
	}
	category, err := parseCategory(req.Category)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:                 strings.TrimSpace(req.Title),
		Date:                  date,
		Time:                  req.Time,
		Location:              req.Location,
		Category:              category,
		ImageURL:              helpers.NilIfBlank(req.ImageURL),
		Instructor:            req.Instructor,
		Attendees:             req.Attendees,
		Description:           req.Description,
		AdditionalDescription: req.AdditionalDescription,
		Duration:              req.Duration,
		TargetAudience:        req.TargetAudience,
		Prerequisites:         req.Prerequisites,
		Price:                 req.Price,
		CreatedBy:             actor.UserID,
	}
	if err := s.eventRepo.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.logger.Info().Int64("eventID", event.ID).Int64("actorID", actor.UserID).Msg("Event created")
	resp := dto.NewEventResponse(event)
	return &resp, nil
}

// UpdateEvent applies the fields present in req. created_by never changes.
func (s *eventServiceImpl) UpdateEvent(ctx context.Context, actor *auth.Actor, id int64, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	if err := s.authzSvc.RequireAdmin(actor); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetEventByID(ctx, id)
	if err != nil {
		return nil, withMessage(err, apperrors.ErrEventNotFound, msgEventNotFound)
	}

	if req.Date != nil {
		date, err := parseEventDate(*req.Date)
		if err != nil {
			return nil, err
		}
		event.Date = date
	}
	if req.Category != nil {
		category, err := parseCategory(*req.Category)
		if err != nil {
			return nil, err
		}
		event.Category = category
	}
	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.ImageURL != nil {
		event.ImageURL = helpers.NilIfBlank(req.ImageURL)
	}
	if req.Attendees != nil {
		event.Attendees = *req.Attendees
	}
	setString(&event.Time, req.Time)
	setString(&event.Location, req.Location)
	setString(&event.Instructor, req.Instructor)
	setString(&event.Description, req.Description)
	setString(&event.AdditionalDescription, req.AdditionalDescription)
	setString(&event.Duration, req.Duration)
	setString(&event.TargetAudience, req.TargetAudience)
	setString(&event.Prerequisites, req.Prerequisites)
	setString(&event.Price, req.Price)

	if err := s.eventRepo.UpdateEvent(ctx, event); err != nil {
		return nil, withMessage(err, apperrors.ErrEventNotFound, msgEventNotFound)
	}

	resp := dto.NewEventResponse(event)
	return &resp, nil
}

func (s *eventServiceImpl) DeleteEvent(ctx context.Context, actor *auth.Actor, id int64) error {
	if err := s.authzSvc.RequireAdmin(actor); err != nil {
		return err
	}

	event, err := s.eventRepo.GetEventByID(ctx, id)
	if err != nil {
		return withMessage(err, apperrors.ErrEventNotFound, msgEventNotFound)
	}
	if err := s.eventRepo.DeleteEvent(ctx, id); err != nil {
		return withMessage(err, apperrors.ErrEventNotFound, msgEventNotFound)
	}

	s.removeUpload(event.ImageUpload)
	s.logger.Info().Int64("eventID", id).Int64("actorID", actor.UserID).Msg("Event deleted")
	return nil
}

// UploadEventImage stores the file as the event's uploaded image.
func (s *eventServiceImpl) UploadEventImage(ctx context.Context, actor *auth.Actor, id int64, file *multipart.FileHeader) (*dto.EventResponse, error) {
	if err := s.authzSvc.RequireAdmin(actor); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetEventByID(ctx, id)
	if err != nil {
		return nil, withMessage(err, apperrors.ErrEventNotFound, msgEventNotFound)
	}

	url, err := s.fileStorage.SaveFileWithPath(file, eventImageDir)
	if err != nil {
		if errors.Is(err, filestorage.ErrUnsupportedFileType) {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, msgInvalidImageFile)
		}
		return nil, fmt.Errorf("save event image: %w", err)
	}

	if err := s.eventRepo.UpdateEventImageUpload(ctx, id, url); err != nil {
		_ = s.fileStorage.DeleteFile(url)
		return nil, withMessage(err, apperrors.ErrEventNotFound, msgEventNotFound)
	}

	s.removeUpload(event.ImageUpload)
	event.ImageUpload = &url

	resp := dto.NewEventResponse(event)
	return &resp, nil
}

func (s *eventServiceImpl) removeUpload(image *string) {
	if image == nil || !s.fileStorage.Owns(*image) {
		return
	}
	if err := s.fileStorage.DeleteFile(*image); err != nil {
		s.logger.Warn().Err(err).Str("image", *image).Msg("Failed to delete event image")
	}
}

func parseCategory(raw string) (models.EventCategory, error) {
	c := models.EventCategory(strings.ToLower(strings.TrimSpace(raw)))
	if !c.IsValid() {
		return "", apperrors.NewCustomError(apperrors.ErrInvalidEventCategory, msgInvalidCategory)
	}
	return c, nil
}

func parseEventDate(raw string) (time.Time, error) {
	d, err := time.Parse(dto.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, apperrors.NewCustomError(apperrors.ErrValidationFailed, msgInvalidDate)
	}
	return d, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
