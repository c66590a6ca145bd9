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

var progressColumns = []string{"id", "user_id", "lesson_id", "watched", "completed_at"}

// LessonProgressRepository handles lesson progress database operations
type LessonProgressRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLessonProgressRepository creates a new LessonProgressRepository
func NewLessonProgressRepository(db *pgxpool.Pool) *LessonProgressRepository {
	return &LessonProgressRepository{db: db, sb: newBuilder()}
}

func scanProgress(row pgx.Row, p *models.LessonProgress) error {
	return row.Scan(&p.ID, &p.UserID, &p.LessonID, &p.Watched, &p.CompletedAt)
}

// CreateProgress inserts a (user, lesson) progress row.
func (r *LessonProgressRepository) CreateProgress(ctx context.Context, progress *models.LessonProgress) error {
	query, args, err := r.sb.Insert("lesson_progresses").
		Columns("user_id", "lesson_id", "watched", "completed_at").
		Values(progress.UserID, progress.LessonID, progress.Watched, progress.CompletedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create progress query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&progress.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "lesson_progresses_user_lesson_key") {
			return apperrors.ErrProgressAlreadyTracked
		}
		if dberrors.IsForeignKeyError(err, "") {
			return apperrors.ErrLessonNotFound
		}
		return fmt.Errorf("error creating progress: %w", err)
	}
	return nil
}

func (r *LessonProgressRepository) ListProgress(ctx context.Context, userID *int64) ([]models.LessonProgress, error) {
	q := r.sb.Select(progressColumns...).From("lesson_progresses").OrderBy("id")
	if userID != nil {
		q = q.Where(squirrel.Eq{"user_id": *userID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list progress query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying progress: %w", err)
	}
	defer rows.Close()

	result := make([]models.LessonProgress, 0)
	for rows.Next() {
		var p models.LessonProgress
		if err := scanProgress(rows, &p); err != nil {
			return nil, fmt.Errorf("error scanning progress: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *LessonProgressRepository) GetProgressByID(ctx context.Context, id int64) (*models.LessonProgress, error) {
	query, args, err := r.sb.Select(progressColumns...).From("lesson_progresses").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get progress query: %w", err)
	}

	var p models.LessonProgress
	if err := scanProgress(r.db.QueryRow(ctx, query, args...), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgressNotFound
		}
		return nil, fmt.Errorf("error retrieving progress: %w", err)
	}
	return &p, nil
}

func (r *LessonProgressRepository) UpdateProgress(ctx context.Context, progress *models.LessonProgress) error {
	query, args, err := r.sb.Update("lesson_progresses").
		Set("watched", progress.Watched).
		Set("completed_at", progress.CompletedAt).
		Where(squirrel.Eq{"id": progress.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update progress query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProgressNotFound
	}
	return nil
}

func (r *LessonProgressRepository) DeleteProgress(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete("lesson_progresses").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete progress query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error deleting progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProgressNotFound
	}
	return nil
}
