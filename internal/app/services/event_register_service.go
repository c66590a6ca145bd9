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
)

// EventRegisterService manages event registrations.
type EventRegisterService interface {
	ListRegistrations(ctx context.Context, actor *auth.Actor) ([]dto.EventRegisterResponse, error)
	Register(ctx context.Context, actor *auth.Actor, req *dto.CreateEventRegisterRequest) (*dto.EventRegisterResponse, error)
	IsRegistered(ctx context.Context, actor *auth.Actor, eventID int64) (bool, error)
	Cancel(ctx context.Context, actor *auth.Actor, eventID int64) error
}

type eventRegisterServiceImpl struct {
	registerRepo repositories.IEventRegisterRepository
	eventRepo    repositories.IEventRepository
	authzSvc     *auth.AuthorizationService
	logger       zerolog.Logger
}

// NewEventRegisterService creates a new EventRegisterService
func NewEventRegisterService(
	registerRepo repositories.IEventRegisterRepository,
	eventRepo repositories.IEventRepository,
	authzSvc *auth.AuthorizationService,
	logger zerolog.Logger,
) EventRegisterService {
	return &eventRegisterServiceImpl{
		registerRepo: registerRepo,
		eventRepo:    eventRepo,
		authzSvc:     authzSvc,
		logger:       logger,
	}
}

func (s *eventRegisterServiceImpl) ListRegistrations(ctx context.Context, actor *auth.Actor) ([]dto.EventRegisterResponse, error) {
	rows, err := s.registerRepo.ListRegistrations(ctx, s.authzSvc.ListScope(actor))
	if err != nil {
		return nil, fmt.Errorf("list event registrations: %w", err)
	}
	return dto.NewEventRegisterResponses(rows), nil
}

// Register registers the caller for an event at most once.
func (s *eventRegisterServiceImpl) Register(ctx context.Context, actor *auth.Actor, req *dto.CreateEventRegisterRequest) (*dto.EventRegisterResponse, error) {
	if err := s.authzSvc.RequireUser(actor); err != nil {
		return nil, err
	}

	ok, err := s.eventRepo.EventExists(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("check event: %w", err)
	}
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrEventNotFound, msgEventNotFound)
	}

	registered, err := s.registerRepo.IsRegistered(ctx, actor.UserID, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("check registration: %w", err)
	}
	if registered {
		return nil, apperrors.NewCustomError(apperrors.ErrAlreadyRegistered, msgAlreadyRegistered)
	}

	reg, err := s.registerRepo.CreateRegistration(ctx, actor.UserID, req.EventID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyRegistered) {
			return nil, apperrors.NewCustomError(apperrors.ErrAlreadyRegistered, msgAlreadyRegistered)
		}
		return nil, withMessage(err, apperrors.ErrEventNotFound, msgEventNotFound)
	}

	s.logger.Info().Int64("userID", actor.UserID).Int64("eventID", req.EventID).Msg("User registered for event")
	resp := dto.NewEventRegisterResponse(reg)
	return &resp, nil
}

func (s *eventRegisterServiceImpl) IsRegistered(ctx context.Context, actor *auth.Actor, eventID int64) (bool, error) {
	if err := s.authzSvc.RequireUser(actor); err != nil {
		return false, err
	}
	registered, err := s.registerRepo.IsRegistered(ctx, actor.UserID, eventID)
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return registered, nil
}

// Cancel removes the caller's registration for the event.
func (s *eventRegisterServiceImpl) Cancel(ctx context.Context, actor *auth.Actor, eventID int64) error {
	if err := s.authzSvc.RequireUser(actor); err != nil {
		return err
	}
	if err := s.registerRepo.DeleteRegistration(ctx, actor.UserID, eventID); err != nil {
		return withMessage(err, apperrors.ErrNotRegistered, msgNotRegistered)
	}
	s.logger.Info().Int64("userID", actor.UserID).Int64("eventID", eventID).Msg("Event registration cancelled")
	return nil
}
