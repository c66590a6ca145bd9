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

// price is NUMERIC(10,2); it is read as float8.
var courseColumns = []string{"c.id", "c.title", "c.description", "c.image", "c.is_paid", "c.price::float8", "c.created_at"}

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db, sb: newBuilder()}
}

func courseScanTargets(c *models.Course) []interface{} {
	return []interface{}{&c.ID, &c.Title, &c.Description, &c.Image, &c.IsPaid, &c.Price, &c.CreatedAt}
}

// ListCourses returns all courses in id order.
func (r *CourseRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	query, args, err := r.sb.Select(courseColumns...).From("courses c").OrderBy("c.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := make([]models.Course, 0)
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(courseScanTargets(&c)...); err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *CourseRepository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	query, args, err := r.sb.Select(courseColumns...).From("courses c").Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	var c models.Course
	if err := r.db.QueryRow(ctx, query, args...).Scan(courseScanTargets(&c)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return &c, nil
}

func (r *CourseRepository) CourseExists(ctx context.Context, id int64) (bool, error) {
	found, err := exists(ctx, r.db, r.sb, "courses", squirrel.Eq{"id": id})
	if err != nil {
		return false, fmt.Errorf("error checking course: %w", err)
	}
	return found, nil
}

// CreateCourse inserts the course and fills its id and creation time.
func (r *CourseRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	query, args, err := r.sb.Insert("courses").
		Columns("title", "description", "image", "is_paid", "price").
		Values(course.Title, course.Description, course.Image, course.IsPaid, course.Price).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&course.ID, &course.CreatedAt); err != nil {
		logger.Error().Err(err).Str("title", course.Title).Msg("Error creating course")
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

func (r *CourseRepository) UpdateCourse(ctx context.Context, course *models.Course) error {
	query, args, err := r.sb.Update("courses").
		Set("title", course.Title).
		Set("description", course.Description).
		Set("image", course.Image).
		Set("is_paid", course.IsPaid).
		Set("price", course.Price).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) UpdateCourseImage(ctx context.Context, id int64, image string) error {
	query, args, err := r.sb.Update("courses").Set("image", image).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course image query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating course image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// DeleteCourse removes the course; sections, lessons and enrollments cascade.
func (r *CourseRepository) DeleteCourse(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete("courses").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// courseStatsQuery selects the lesson and enrollment counts of one course.
// The subqueries keep "?" placeholders so the outer builder numbers them once.
func (r *CourseRepository) courseStatsQuery(id int64) (string, []interface{}, error) {
	lessons := squirrel.Select("COUNT(*)").From("lessons l").
		Join("sections s ON s.id = l.section_id").
		Where(squirrel.Eq{"s.course_id": id})
	enrollments := squirrel.Select("COUNT(*)").From("enrollments e").Where(squirrel.Eq{"e.course_id": id})

	return r.sb.Select().
		Column(squirrel.Expr("(?)", lessons)).
		Column(squirrel.Expr("(?)", enrollments)).
		ToSql()
}

// GetCourseStats counts the course's lessons across sections and its enrollments.
func (r *CourseRepository) GetCourseStats(ctx context.Context, id int64) (models.CourseStats, error) {
	query, args, err := r.courseStatsQuery(id)
	if err != nil {
		return models.CourseStats{}, fmt.Errorf("failed to build course stats query: %w", err)
	}

	var stats models.CourseStats
	if err := r.db.QueryRow(ctx, query, args...).Scan(&stats.TotalLessons, &stats.TotalEnrollments); err != nil {
		return models.CourseStats{}, fmt.Errorf("error retrieving course stats: %w", err)
	}
	return stats, nil
}

func (r *CourseRepository) latestWithStudentsQuery(limit int) (string, []interface{}, error) {
	return r.sb.Select(append(courseColumns, "COUNT(e.id)")...).
		From("courses c").
		LeftJoin("enrollments e ON e.course_id = c.id").
		GroupBy("c.id").
		OrderBy("c.created_at DESC", "c.id DESC").
		Limit(uint64(limit)).
		ToSql()
}

// ListLatestWithStudents returns the newest courses with their enrollment counts.
func (r *CourseRepository) ListLatestWithStudents(ctx context.Context, limit int) ([]models.CourseWithStudents, error) {
	query, args, err := r.latestWithStudentsQuery(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build latest courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying latest courses: %w", err)
	}
	defer rows.Close()

	result := make([]models.CourseWithStudents, 0, limit)
	for rows.Next() {
		var row models.CourseWithStudents
		targets := append(courseScanTargets(&row.Course), &row.StudentCount)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("error scanning latest course: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
