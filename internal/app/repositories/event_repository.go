package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/logger"
)

var eventColumns = []string{
	"id", "title", "date", "time", "location", "category", "image_url", "image_upload",
	"instructor", "attendees", "description", "additional_description", "duration",
	"target_audience", "prerequisites", "price", "created_by", "created_at",
}

// EventRepository handles event database operations
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db, sb: newBuilder()}
}

func scanEvent(row pgx.Row, e *models.Event) error {
	var category string
	err := row.Scan(&e.ID, &e.Title, &e.Date, &e.Time, &e.Location, &category, &e.ImageURL, &e.ImageUpload,
		&e.Instructor, &e.Attendees, &e.Description, &e.AdditionalDescription, &e.Duration,
		&e.TargetAudience, &e.Prerequisites, &e.Price, &e.CreatedBy, &e.CreatedAt)
	e.Category = models.EventCategory(category)
	return err
}

// ListEvents returns events by date, optionally filtered by category.
func (r *EventRepository) ListEvents(ctx context.Context, category *models.EventCategory) ([]models.Event, error) {
	q := r.sb.Select(eventColumns...).From("events").OrderBy("date", "id")
	if category != nil {
		q = q.Where(squirrel.Eq{"category": string(*category)})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var e models.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, fmt.Errorf("error scanning event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *EventRepository) GetEventByID(ctx context.Context, id int64) (*models.Event, error) {
	query, args, err := r.sb.Select(eventColumns...).From("events").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	var e models.Event
	if err := scanEvent(r.db.QueryRow(ctx, query, args...), &e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}
	return &e, nil
}

func (r *EventRepository) EventExists(ctx context.Context, id int64) (bool, error) {
	found, err := exists(ctx, r.db, r.sb, "events", squirrel.Eq{"id": id})
	if err != nil {
		return false, fmt.Errorf("error checking event: %w", err)
	}
	return found, nil
}

func (r *EventRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	query, args, err := r.sb.Insert("events").
		Columns("title", "date", "time", "location", "category", "image_url", "image_upload",
			"instructor", "attendees", "description", "additional_description", "duration",
			"target_audience", "prerequisites", "price", "created_by").
		Values(event.Title, event.Date, event.Time, event.Location, string(event.Category), event.ImageURL, event.ImageUpload,
			event.Instructor, event.Attendees, event.Description, event.AdditionalDescription, event.Duration,
			event.TargetAudience, event.Prerequisites, event.Price, event.CreatedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&event.ID, &event.CreatedAt); err != nil {
		logger.Error().Err(err).Str("title", event.Title).Msg("Error creating event")
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event *models.Event) error {
	query, args, err := r.sb.Update("events").
		SetMap(map[string]interface{}{
			"title":                  event.Title,
			"date":                   event.Date,
			"time":                   event.Time,
			"location":               event.Location,
			"category":               string(event.Category),
			"image_url":              event.ImageURL,
			"image_upload":           event.ImageUpload,
			"instructor":             event.Instructor,
			"attendees":              event.Attendees,
			"description":            event.Description,
			"additional_description": event.AdditionalDescription,
			"duration":               event.Duration,
			"target_audience":        event.TargetAudience,
			"prerequisites":          event.Prerequisites,
			"price":                  event.Price,
		}).
		Where(squirrel.Eq{"id": event.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) UpdateEventImageUpload(ctx context.Context, id int64, image string) error {
	query, args, err := r.sb.Update("events").Set("image_upload", image).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event image query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating event image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete("events").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete event query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}
