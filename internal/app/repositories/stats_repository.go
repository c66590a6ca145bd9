package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/learnhub/internal/app/models"
)

// StatEntity names a table counted on the dashboard.
type StatEntity string

const (
	StatCourses     StatEntity = "courses"
	StatUsers       StatEntity = "users"
	StatEnrollments StatEntity = "enrollments"
)

// statTimestamp maps each entity to its creation timestamp column.
var statTimestamp = map[StatEntity]string{
	StatCourses:     "created_at",
	StatUsers:       "date_joined",
	StatEnrollments: "enrolled_at",
}

// StatsRepository runs dashboard aggregation queries.
type StatsRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db, sb: newBuilder()}
}

func (r *StatsRepository) countInWindowsQuery(entity StatEntity, current, previous models.Window) (string, []interface{}, error) {
	column, ok := statTimestamp[entity]
	if !ok {
		return "", nil, fmt.Errorf("unknown stat entity %q", entity)
	}

	filter := fmt.Sprintf("COUNT(*) FILTER (WHERE %s >= ? AND %s < ?)", column, column)
	return r.sb.Select("COUNT(*)").
		Column(squirrel.Expr(filter, current.From, current.To)).
		Column(squirrel.Expr(filter, previous.From, previous.To)).
		From(string(entity)).
		ToSql()
}

// CountInWindows counts all rows of the entity and those created inside each window.
func (r *StatsRepository) CountInWindows(ctx context.Context, entity StatEntity, current, previous models.Window) (models.PeriodCount, error) {
	query, args, err := r.countInWindowsQuery(entity, current, previous)
	if err != nil {
		return models.PeriodCount{}, fmt.Errorf("failed to build count query: %w", err)
	}

	var pc models.PeriodCount
	if err := r.db.QueryRow(ctx, query, args...).Scan(&pc.Total, &pc.Current, &pc.Previous); err != nil {
		return models.PeriodCount{}, fmt.Errorf("error counting %s: %w", entity, err)
	}
	return pc, nil
}

// RevenueInWindow sums the course price of every enrollment made inside the window.
func (r *StatsRepository) RevenueInWindow(ctx context.Context, window models.Window) (float64, error) {
	query, args, err := r.sb.Select("COALESCE(SUM(c.price), 0)::float8").
		From("enrollments e").
		Join("courses c ON c.id = e.course_id").
		Where(squirrel.GtOrEq{"e.enrolled_at": window.From}).
		Where(squirrel.Lt{"e.enrolled_at": window.To}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build revenue query: %w", err)
	}

	var total float64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error summing revenue: %w", err)
	}
	return total, nil
}

// ListCourseRevenues returns every course with its enrollment count, in course id order.
// TotalRevenue is left for the caller to derive.
func (r *StatsRepository) ListCourseRevenues(ctx context.Context) ([]models.CourseRevenue, error) {
	query, args, err := r.sb.Select("c.id", "c.title", "c.price::float8", "COUNT(e.id)").
		From("courses c").
		LeftJoin("enrollments e ON e.course_id = c.id").
		GroupBy("c.id").
		OrderBy("c.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course revenue query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying course revenue: %w", err)
	}
	defer rows.Close()

	result := make([]models.CourseRevenue, 0)
	for rows.Next() {
		var cr models.CourseRevenue
		if err := rows.Scan(&cr.CourseID, &cr.Title, &cr.Price, &cr.TotalEnrollments); err != nil {
			return nil, fmt.Errorf("error scanning course revenue: %w", err)
		}
		result = append(result, cr)
	}
	return result, rows.Err()
}
