package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/db"
	"github.com/yigit/learnhub/internal/pkg/auth"
)

// SuperuserParams are read from the seed section of the configuration.
type SuperuserParams struct {
	Username string
	Email    string
	Password string
}

type superuserChecker interface {
	SuperuserExists(ctx context.Context) (bool, error)
}

// EnsureSuperuser creates the first administrator when the database has none.
// The user row, the admin group and the membership are written in one transaction.
func EnsureSuperuser(ctx context.Context, database *db.PostgresDB, users superuserChecker, params SuperuserParams, lgr zerolog.Logger) error {
	exists, err := users.SuperuserExists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check superuser: %w", err)
	}
	if exists {
		lgr.Debug().Msg("Superuser already exists, skipping seed")
		return nil
	}

	if params.Username == "" || params.Password == "" {
		lgr.Warn().Msg("No superuser exists and seed.superuser_username/seed.superuser_password are not set")
		return nil
	}

	hashed, err := auth.HashPassword(params.Password)
	if err != nil {
		return fmt.Errorf("failed to hash superuser password: %w", err)
	}

	err = database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var userID int64
		err := tx.QueryRow(ctx,
			`INSERT INTO users (username, email, password, is_staff, is_superuser, is_active)
			VALUES ($1, $2, $3, TRUE, TRUE, TRUE)
			RETURNING id`,
			params.Username, params.Email, hashed,
		).Scan(&userID)
		if err != nil {
			return fmt.Errorf("error creating superuser: %w", err)
		}

		var groupID int64
		err = tx.QueryRow(ctx,
			`INSERT INTO groups (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`,
			appModels.RoleAdmin,
		).Scan(&groupID)
		if err != nil {
			return fmt.Errorf("error creating admin group: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO user_groups (user_id, group_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, groupID,
		); err != nil {
			return fmt.Errorf("error adding superuser to admin group: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	lgr.Info().Str("username", params.Username).Msg("Superuser created")
	return nil
}
