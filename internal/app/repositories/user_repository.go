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

var userColumns = []string{
	"id", "username", "email", "password", "first_name", "last_name",
	"is_staff", "is_superuser", "is_active", "date_joined",
}

// UserRepository handles users and their group memberships.
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db, sb: newBuilder()}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.FirstName, &u.LastName,
		&u.IsStaff, &u.IsSuperuser, &u.IsActive, &u.DateJoined)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts the user and returns its id.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	query, args, err := r.sb.Insert("users").
		Columns("username", "email", "password", "first_name", "last_name", "is_staff", "is_superuser", "is_active").
		Values(user.Username, user.Email, user.Password, user.FirstName, user.LastName, user.IsStaff, user.IsSuperuser, user.IsActive).
		Suffix("RETURNING id, date_joined").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&user.ID, &user.DateJoined); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_username_key") {
			return 0, apperrors.ErrUsernameAlreadyExists
		}
		logger.Error().Err(err).Str("username", user.Username).Msg("Error creating user")
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return user.ID, nil
}

func (r *UserRepository) getOne(ctx context.Context, pred interface{}) (*models.User, error) {
	query, args, err := r.sb.Select(userColumns...).From("users").Where(pred).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username})
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	found, err := exists(ctx, r.db, r.sb, "users", squirrel.Eq{"username": username})
	if err != nil {
		return false, fmt.Errorf("error checking username: %w", err)
	}
	return found, nil
}

func (r *UserRepository) SuperuserExists(ctx context.Context) (bool, error) {
	found, err := exists(ctx, r.db, r.sb, "users", squirrel.Eq{"is_superuser": true})
	if err != nil {
		return false, fmt.Errorf("error checking superuser: %w", err)
	}
	return found, nil
}

// GetGroupNames returns the user's groups ordered by group id.
func (r *UserRepository) GetGroupNames(ctx context.Context, userID int64) ([]string, error) {
	query, args, err := r.sb.Select("g.name").
		From("groups g").
		Join("user_groups ug ON ug.group_id = g.id").
		Where(squirrel.Eq{"ug.user_id": userID}).
		OrderBy("g.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build group query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying groups: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error scanning group: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
