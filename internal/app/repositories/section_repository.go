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

var sectionColumns = []string{"id", "course_id", "title", `"order"`}

// SectionRepository handles section database operations
type SectionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSectionRepository creates a new SectionRepository
func NewSectionRepository(db *pgxpool.Pool) *SectionRepository {
	return &SectionRepository{db: db, sb: newBuilder()}
}

func (r *SectionRepository) query(ctx context.Context, q squirrel.SelectBuilder) ([]models.Section, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list sections query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying sections: %w", err)
	}
	defer rows.Close()

	sections := make([]models.Section, 0)
	for rows.Next() {
		var s models.Section
		if err := rows.Scan(&s.ID, &s.CourseID, &s.Title, &s.Order); err != nil {
			return nil, fmt.Errorf("error scanning section: %w", err)
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// ListSections returns sections ordered by display order, optionally for one course.
func (r *SectionRepository) ListSections(ctx context.Context, courseID *int64) ([]models.Section, error) {
	return r.query(ctx, r.listSectionsQuery(courseID))
}

func (r *SectionRepository) listSectionsQuery(courseID *int64) squirrel.SelectBuilder {
	q := r.sb.Select(sectionColumns...).From("sections").OrderBy("course_id", `"order"`, "id")
	if courseID != nil {
		q = q.Where(squirrel.Eq{"course_id": *courseID})
	}
	return q
}

func (r *SectionRepository) sectionLessonsQuery(sectionIDs []int64) squirrel.SelectBuilder {
	return r.sb.Select(lessonColumns...).
		From("lessons").
		Where(squirrel.Eq{"section_id": sectionIDs}).
		OrderBy("section_id", `"order"`, "id")
}

// ListSectionsWithLessons loads a course's sections and attaches their lessons,
// both ordered by display order then id.
func (r *SectionRepository) ListSectionsWithLessons(ctx context.Context, courseID int64) ([]models.Section, error) {
	sections, err := r.ListSections(ctx, &courseID)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return sections, nil
	}

	ids := make([]int64, 0, len(sections))
	index := make(map[int64]int, len(sections))
	for i := range sections {
		sections[i].Lessons = make([]models.Lesson, 0)
		ids = append(ids, sections[i].ID)
		index[sections[i].ID] = i
	}

	lessons, err := queryLessons(ctx, r.db, r.sectionLessonsQuery(ids))
	if err != nil {
		return nil, err
	}

	for _, l := range lessons {
		i := index[l.SectionID]
		sections[i].Lessons = append(sections[i].Lessons, l)
	}
	return sections, nil
}

func (r *SectionRepository) GetSectionByID(ctx context.Context, id int64) (*models.Section, error) {
	query, args, err := r.sb.Select(sectionColumns...).From("sections").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get section query: %w", err)
	}

	var s models.Section
	if err := r.db.QueryRow(ctx, query, args...).Scan(&s.ID, &s.CourseID, &s.Title, &s.Order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSectionNotFound
		}
		return nil, fmt.Errorf("error retrieving section: %w", err)
	}
	return &s, nil
}

func (r *SectionRepository) SectionExists(ctx context.Context, id int64) (bool, error) {
	found, err := exists(ctx, r.db, r.sb, "sections", squirrel.Eq{"id": id})
	if err != nil {
		return false, fmt.Errorf("error checking section: %w", err)
	}
	return found, nil
}

func (r *SectionRepository) CreateSection(ctx context.Context, section *models.Section) error {
	query, args, err := r.sb.Insert("sections").
		Columns("course_id", "title", `"order"`).
		Values(section.CourseID, section.Title, section.Order).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create section query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&section.ID); err != nil {
		if dberrors.IsForeignKeyError(err, "") {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error creating section: %w", err)
	}
	return nil
}

func (r *SectionRepository) UpdateSection(ctx context.Context, section *models.Section) error {
	query, args, err := r.sb.Update("sections").
		Set("course_id", section.CourseID).
		Set("title", section.Title).
		Set(`"order"`, section.Order).
		Where(squirrel.Eq{"id": section.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update section query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if dberrors.IsForeignKeyError(err, "") {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error updating section: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSectionNotFound
	}
	return nil
}

func (r *SectionRepository) DeleteSection(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete("sections").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete section query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error deleting section: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSectionNotFound
	}
	return nil
}
