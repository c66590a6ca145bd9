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
	"github.com/yigit/learnhub/internal/pkg/dberrors"
)

// EventRegisterRepository handles event registration database operations
type EventRegisterRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRegisterRepository creates a new EventRegisterRepository
func NewEventRegisterRepository(db *pgxpool.Pool) *EventRegisterRepository {
	return &EventRegisterRepository{db: db, sb: newBuilder()}
}

func (r *EventRegisterRepository) selectRegistrations() squirrel.SelectBuilder {
	return r.sb.Select("er.id", "er.user_id", "er.event_id", "er.created_at", "u.username", "ev.title").
		From("event_registers er").
		Join("users u ON u.id = er.user_id").
		Join("events ev ON ev.id = er.event_id")
}

func scanRegistration(row pgx.Row, reg *models.EventRegister) error {
	return row.Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.CreatedAt, &reg.Username, &reg.EventTitle)
}

// CreateRegistration inserts a (user, event) pair. A duplicate pair yields ErrAlreadyRegistered.
func (r *EventRegisterRepository) CreateRegistration(ctx context.Context, userID, eventID int64) (*models.EventRegister, error) {
	query, args, err := r.sb.Insert("event_registers").
		Columns("user_id", "event_id").
		Values(userID, eventID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create registration query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "event_registers_user_event_key") {
			return nil, apperrors.ErrAlreadyRegistered
		}
		if dberrors.IsForeignKeyError(err, "") {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error creating registration: %w", err)
	}

	query, args, err = r.selectRegistrations().Where(squirrel.Eq{"er.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get registration query: %w", err)
	}

	var reg models.EventRegister
	if err := scanRegistration(r.db.QueryRow(ctx, query, args...), &reg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotRegistered
		}
		return nil, fmt.Errorf("error retrieving registration: %w", err)
	}
	return &reg, nil
}

func (r *EventRegisterRepository) ListRegistrations(ctx context.Context, userID *int64) ([]models.EventRegister, error) {
	q := r.selectRegistrations().OrderBy("er.id")
	if userID != nil {
		q = q.Where(squirrel.Eq{"er.user_id": *userID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list registrations query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying registrations: %w", err)
	}
	defer rows.Close()

	result := make([]models.EventRegister, 0)
	for rows.Next() {
		var reg models.EventRegister
		if err := scanRegistration(rows, &reg); err != nil {
			return nil, fmt.Errorf("error scanning registration: %w", err)
		}
		result = append(result, reg)
	}
	return result, rows.Err()
}

func (r *EventRegisterRepository) IsRegistered(ctx context.Context, userID, eventID int64) (bool, error) {
	found, err := exists(ctx, r.db, r.sb, "event_registers", squirrel.Eq{"user_id": userID, "event_id": eventID})
	if err != nil {
		return false, fmt.Errorf("error checking registration: %w", err)
	}
	return found, nil
}

// DeleteRegistration cancels the caller's registration; ErrNotRegistered when none exists.
func (r *EventRegisterRepository) DeleteRegistration(ctx context.Context, userID, eventID int64) error {
	query, args, err := r.sb.Delete("event_registers").
		Where(squirrel.Eq{"user_id": userID, "event_id": eventID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete registration query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error deleting registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotRegistered
	}
	return nil
}
