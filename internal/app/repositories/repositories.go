package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/learnhub/internal/app/models"
)

// IUserRepository defines user and group persistence.
type IUserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	SuperuserExists(ctx context.Context) (bool, error)
	GetGroupNames(ctx context.Context, userID int64) ([]string, error)
}

// ITokenRepository stores refresh tokens.
type ITokenRepository interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeToken(ctx context.Context, token string) error
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// ICourseRepository defines course persistence.
type ICourseRepository interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	CourseExists(ctx context.Context, id int64) (bool, error)
	CreateCourse(ctx context.Context, course *models.Course) error
	UpdateCourse(ctx context.Context, course *models.Course) error
	UpdateCourseImage(ctx context.Context, id int64, image string) error
	DeleteCourse(ctx context.Context, id int64) error
	GetCourseStats(ctx context.Context, id int64) (models.CourseStats, error)
	ListLatestWithStudents(ctx context.Context, limit int) ([]models.CourseWithStudents, error)
}

// ISectionRepository defines section persistence.
type ISectionRepository interface {
	ListSections(ctx context.Context, courseID *int64) ([]models.Section, error)
	ListSectionsWithLessons(ctx context.Context, courseID int64) ([]models.Section, error)
	GetSectionByID(ctx context.Context, id int64) (*models.Section, error)
	SectionExists(ctx context.Context, id int64) (bool, error)
	CreateSection(ctx context.Context, section *models.Section) error
	UpdateSection(ctx context.Context, section *models.Section) error
	DeleteSection(ctx context.Context, id int64) error
}

// ILessonRepository defines lesson persistence.
type ILessonRepository interface {
	ListLessons(ctx context.Context, sectionID *int64) ([]models.Lesson, error)
	GetLessonByID(ctx context.Context, id int64) (*models.Lesson, error)
	LessonExists(ctx context.Context, id int64) (bool, error)
	CreateLesson(ctx context.Context, lesson *models.Lesson) error
	UpdateLesson(ctx context.Context, lesson *models.Lesson) error
	DeleteLesson(ctx context.Context, id int64) error
}

// EnrollmentFilter narrows enrollment listings. A nil UserID lists every user's rows.
type EnrollmentFilter struct {
	UserID   *int64
	PaidOnly bool
}

// IEnrollmentRepository defines enrollment persistence.
type IEnrollmentRepository interface {
	CreateEnrollment(ctx context.Context, userID, courseID int64) (*models.Enrollment, error)
	ListEnrollments(ctx context.Context, filter EnrollmentFilter) ([]models.Enrollment, error)
	GetEnrollmentByID(ctx context.Context, id int64) (*models.Enrollment, error)
	IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error)
	DeleteEnrollment(ctx context.Context, id int64) error
}

// ILessonProgressRepository defines lesson progress persistence.
type ILessonProgressRepository interface {
	CreateProgress(ctx context.Context, progress *models.LessonProgress) error
	ListProgress(ctx context.Context, userID *int64) ([]models.LessonProgress, error)
	GetProgressByID(ctx context.Context, id int64) (*models.LessonProgress, error)
	UpdateProgress(ctx context.Context, progress *models.LessonProgress) error
	DeleteProgress(ctx context.Context, id int64) error
}

// IEventRepository defines event persistence.
type IEventRepository interface {
	ListEvents(ctx context.Context, category *models.EventCategory) ([]models.Event, error)
	GetEventByID(ctx context.Context, id int64) (*models.Event, error)
	EventExists(ctx context.Context, id int64) (bool, error)
	CreateEvent(ctx context.Context, event *models.Event) error
	UpdateEvent(ctx context.Context, event *models.Event) error
	UpdateEventImageUpload(ctx context.Context, id int64, image string) error
	DeleteEvent(ctx context.Context, id int64) error
}

// IEventRegisterRepository defines event registration persistence.
type IEventRegisterRepository interface {
	CreateRegistration(ctx context.Context, userID, eventID int64) (*models.EventRegister, error)
	ListRegistrations(ctx context.Context, userID *int64) ([]models.EventRegister, error)
	IsRegistered(ctx context.Context, userID, eventID int64) (bool, error)
	DeleteRegistration(ctx context.Context, userID, eventID int64) error
}

// IStatsRepository runs the aggregation queries behind the dashboard.
type IStatsRepository interface {
	CountInWindows(ctx context.Context, entity StatEntity, current, previous models.Window) (models.PeriodCount, error)
	RevenueInWindow(ctx context.Context, window models.Window) (float64, error)
	ListCourseRevenues(ctx context.Context) ([]models.CourseRevenue, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository           *UserRepository
	TokenRepository          *TokenRepository
	CourseRepository         *CourseRepository
	SectionRepository        *SectionRepository
	LessonRepository         *LessonRepository
	EnrollmentRepository     *EnrollmentRepository
	LessonProgressRepository *LessonProgressRepository
	EventRepository          *EventRepository
	EventRegisterRepository  *EventRegisterRepository
	StatsRepository          *StatsRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:           NewUserRepository(db),
		TokenRepository:          NewTokenRepository(db),
		CourseRepository:         NewCourseRepository(db),
		SectionRepository:        NewSectionRepository(db),
		LessonRepository:         NewLessonRepository(db),
		EnrollmentRepository:     NewEnrollmentRepository(db),
		LessonProgressRepository: NewLessonProgressRepository(db),
		EventRepository:          NewEventRepository(db),
		EventRegisterRepository:  NewEventRegisterRepository(db),
		StatsRepository:          NewStatsRepository(db),
	}
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// existsQuery builds SELECT EXISTS over the given table and predicate. The
// subquery is left with "?" placeholders for the outer builder to number.
func existsQuery(sb squirrel.StatementBuilderType, table string, pred interface{}) (string, []interface{}, error) {
	sub := squirrel.Select("1").From(table).Where(pred).Limit(1)
	return sb.Select().Column(squirrel.Expr("EXISTS(?)", sub)).ToSql()
}

// exists runs SELECT EXISTS over the given table and predicate.
func exists(ctx context.Context, db *pgxpool.Pool, sb squirrel.StatementBuilderType, table string, pred interface{}) (bool, error) {
	query, args, err := existsQuery(sb, table, pred)
	if err != nil {
		return false, err
	}

	var found bool
	if err := db.QueryRow(ctx, query, args...).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}
