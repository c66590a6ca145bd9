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
	"github.com/yigit/learnhub/internal/pkg/logger"
)

const enrollmentUniqueConstraint = "enrollments_user_course_key"

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db, sb: newBuilder()}
}

// selectEnrollments joins each enrollment with its user and course.
func (r *EnrollmentRepository) selectEnrollments() squirrel.SelectBuilder {
	cols := append([]string{"en.id", "en.user_id", "en.course_id", "en.enrolled_at", "u.username"}, courseColumns...)
	return r.sb.Select(cols...).
		From("enrollments en").
		Join("users u ON u.id = en.user_id").
		Join("courses c ON c.id = en.course_id")
}

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	e := &models.Enrollment{Course: &models.Course{}}
	targets := append([]interface{}{&e.ID, &e.UserID, &e.CourseID, &e.EnrolledAt, &e.Username}, courseScanTargets(e.Course)...)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	return e, nil
}

// CreateEnrollment inserts a (user, course) pair. A duplicate pair yields ErrAlreadyEnrolled.
func (r *EnrollmentRepository) CreateEnrollment(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	query, args, err := r.sb.Insert("enrollments").
		Columns("user_id", "course_id").
		Values(userID, courseID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create enrollment query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, enrollmentUniqueConstraint) {
			return nil, apperrors.ErrAlreadyEnrolled
		}
		if dberrors.IsForeignKeyError(err, "") {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Int64("courseID", courseID).Msg("Error creating enrollment")
		return nil, fmt.Errorf("error creating enrollment: %w", err)
	}

	return r.GetEnrollmentByID(ctx, id)
}

func (r *EnrollmentRepository) listEnrollmentsQuery(filter EnrollmentFilter) squirrel.SelectBuilder {
	q := r.selectEnrollments().OrderBy("en.id")
	if filter.UserID != nil {
		q = q.Where(squirrel.Eq{"en.user_id": *filter.UserID})
	}
	if filter.PaidOnly {
		q = q.Where(squirrel.Eq{"c.is_paid": true})
	}
	return q
}

// ListEnrollments returns enrollments in id order.
func (r *EnrollmentRepository) ListEnrollments(ctx context.Context, filter EnrollmentFilter) ([]models.Enrollment, error) {
	query, args, err := r.listEnrollmentsQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying enrollments: %w", err)
	}
	defer rows.Close()

	result := make([]models.Enrollment, 0)
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrollment: %w", err)
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

func (r *EnrollmentRepository) GetEnrollmentByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query, args, err := r.selectEnrollments().Where(squirrel.Eq{"en.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}

	e, err := scanEnrollment(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}
	return e, nil
}

func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error) {
	found, err := exists(ctx, r.db, r.sb, "enrollments", squirrel.Eq{"user_id": userID, "course_id": courseID})
	if err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}
	return found, nil
}

func (r *EnrollmentRepository) DeleteEnrollment(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete("enrollments").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete enrollment query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error deleting enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	return nil
}
