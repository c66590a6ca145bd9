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

var lessonColumns = []string{"id", "section_id", "title", "video_url", "article_content", `"order"`}

// LessonRepository handles lesson database operations
type LessonRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLessonRepository creates a new LessonRepository
func NewLessonRepository(db *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{db: db, sb: newBuilder()}
}

func scanLesson(row pgx.Row, l *models.Lesson) error {
	return row.Scan(&l.ID, &l.SectionID, &l.Title, &l.VideoURL, &l.ArticleContent, &l.Order)
}

func queryLessons(ctx context.Context, db *pgxpool.Pool, q squirrel.SelectBuilder) ([]models.Lesson, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list lessons query: %w", err)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying lessons: %w", err)
	}
	defer rows.Close()

	lessons := make([]models.Lesson, 0)
	for rows.Next() {
		var l models.Lesson
		if err := scanLesson(rows, &l); err != nil {
			return nil, fmt.Errorf("error scanning lesson: %w", err)
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

// ListLessons returns lessons ordered by display order, optionally for one section.
func (r *LessonRepository) ListLessons(ctx context.Context, sectionID *int64) ([]models.Lesson, error) {
	q := r.sb.Select(lessonColumns...).From("lessons").OrderBy("section_id", `"order"`, "id")
	if sectionID != nil {
		q = q.Where(squirrel.Eq{"section_id": *sectionID})
	}
	return queryLessons(ctx, r.db, q)
}

func (r *LessonRepository) GetLessonByID(ctx context.Context, id int64) (*models.Lesson, error) {
	query, args, err := r.sb.Select(lessonColumns...).From("lessons").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get lesson query: %w", err)
	}

	var l models.Lesson
	if err := scanLesson(r.db.QueryRow(ctx, query, args...), &l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLessonNotFound
		}
		return nil, fmt.Errorf("error retrieving lesson: %w", err)
	}
	return &l, nil
}

func (r *LessonRepository) LessonExists(ctx context.Context, id int64) (bool, error) {
	found, err := exists(ctx, r.db, r.sb, "lessons", squirrel.Eq{"id": id})
	if err != nil {
		return false, fmt.Errorf("error checking lesson: %w", err)
	}
	return found, nil
}

func (r *LessonRepository) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	query, args, err := r.sb.Insert("lessons").
		Columns("section_id", "title", "video_url", "article_content", `"order"`).
		Values(lesson.SectionID, lesson.Title, lesson.VideoURL, lesson.ArticleContent, lesson.Order).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create lesson query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&lesson.ID); err != nil {
		if dberrors.IsForeignKeyError(err, "") {
			return apperrors.ErrSectionNotFound
		}
		return fmt.Errorf("error creating lesson: %w", err)
	}
	return nil
}

func (r *LessonRepository) UpdateLesson(ctx context.Context, lesson *models.Lesson) error {
	query, args, err := r.sb.Update("lessons").
		Set("section_id", lesson.SectionID).
		Set("title", lesson.Title).
		Set("video_url", lesson.VideoURL).
		Set("article_content", lesson.ArticleContent).
		Set(`"order"`, lesson.Order).
		Where(squirrel.Eq{"id": lesson.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update lesson query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if dberrors.IsForeignKeyError(err, "") {
			return apperrors.ErrSectionNotFound
		}
		return fmt.Errorf("error updating lesson: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}
	return nil
}

func (r *LessonRepository) DeleteLesson(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete("lessons").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete lesson query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error deleting lesson: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}
	return nil
}
