package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/learnhub/internal/app/auth"
	appControllers "github.com/yigit/learnhub/internal/app/controllers"
	appMigrations "github.com/yigit/learnhub/internal/app/migrations"
	appRepos "github.com/yigit/learnhub/internal/app/repositories"
	appRoutes "github.com/yigit/learnhub/internal/app/routes"
	appServices "github.com/yigit/learnhub/internal/app/services"
	"github.com/yigit/learnhub/internal/config"
	"github.com/yigit/learnhub/internal/db"
	appMiddleware "github.com/yigit/learnhub/internal/middleware"
	pkgAuth "github.com/yigit/learnhub/internal/pkg/auth"
	"github.com/yigit/learnhub/internal/pkg/cache"
	"github.com/yigit/learnhub/internal/pkg/filestorage"
	"github.com/yigit/learnhub/internal/pkg/helpers"
	"github.com/yigit/learnhub/internal/pkg/logger"
	"github.com/yigit/learnhub/internal/seed"
)

const cachePrefix = "learnhub"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	Redis       *redis.Client
	Cache       cache.Cache
	FileStorage *filestorage.LocalStorage
	JWTService  *pkgAuth.JWTService
	Authz       *appAuth.AuthorizationService

	AuthService           appServices.AuthService
	CourseService         appServices.CourseService
	SectionService        appServices.SectionService
	LessonService         appServices.LessonService
	EnrollmentService     appServices.EnrollmentService
	LessonProgressService appServices.LessonProgressService
	EventService          appServices.EventService
	EventRegisterService  appServices.EventRegisterService
	StatsService          appServices.StatsService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	RateLimiter    *appMiddleware.RateLimiter
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: logger.IsPrettyFormat(cfg.Logging.Format),
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to PostgreSQL, applies migrations and seeds the superuser.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool, lgr).Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	params := seed.SuperuserParams{
		Username: cfg.Seed.SuperuserUsername,
		Email:    cfg.Seed.SuperuserEmail,
		Password: cfg.Seed.SuperuserPassword,
	}
	if err := seed.EnsureSuperuser(ctx, database, appRepos.NewUserRepository(database.Pool), params, lgr); err != nil {
		// startup continues; an admin can still be created by hand
		lgr.Error().Err(err).Msg("Failed to create superuser, proceeding anyway...")
	}

	removed, err := appRepos.NewTokenRepository(database.Pool).CleanupExpiredTokens(ctx)
	if err != nil {
		lgr.Warn().Err(err).Msg("Failed to clean up expired refresh tokens")
	} else if removed > 0 {
		lgr.Info().Int64("removed", removed).Msg("Expired refresh tokens removed")
	}

	return database, nil
}

// SetupRedis connects to Redis when an address is configured. A nil client
// disables caching and rate limiting.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("Redis not configured, caching and rate limiting disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		lgr.Warn().Err(err).Msg("Redis unavailable, caching and rate limiting disabled")
		return nil
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	return client
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, redisClient *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Redis: redisClient}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.Cache = cache.Noop{}
	if redisClient != nil {
		deps.Cache = cache.NewRedisCache(redisClient, cachePrefix, helpers.ParseDuration(cfg.Redis.CacheTTL, time.Minute))
	}

	// The base URL must match the static route registered by the server.
	fileStorageBaseURL := strings.TrimRight(cfg.Server.PublicURL, "/") + "/uploads"
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 168*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})
	deps.Authz = appAuth.NewAuthorizationService()

	repos := deps.Repos
	deps.AuthService = appServices.NewAuthService(repos.UserRepository, repos.TokenRepository, deps.JWTService, deps.Cache, lgr.With().Str("service", "auth").Logger())
	deps.CourseService = appServices.NewCourseService(repos.CourseRepository, deps.Authz, deps.FileStorage, deps.Cache, lgr.With().Str("service", "course").Logger())
	deps.SectionService = appServices.NewSectionService(repos.SectionRepository, repos.CourseRepository, deps.Authz, lgr.With().Str("service", "section").Logger())
	deps.LessonService = appServices.NewLessonService(repos.LessonRepository, repos.SectionRepository, deps.Authz, lgr.With().Str("service", "lesson").Logger())
	deps.EnrollmentService = appServices.NewEnrollmentService(repos.EnrollmentRepository, repos.CourseRepository, deps.Authz, deps.Cache, lgr.With().Str("service", "enrollment").Logger())
	deps.LessonProgressService = appServices.NewLessonProgressService(repos.LessonProgressRepository, repos.LessonRepository, deps.Authz, time.Now, lgr.With().Str("service", "lesson_progress").Logger())
	deps.EventService = appServices.NewEventService(repos.EventRepository, deps.Authz, deps.FileStorage, lgr.With().Str("service", "event").Logger())
	deps.EventRegisterService = appServices.NewEventRegisterService(repos.EventRegisterRepository, repos.EventRepository, deps.Authz, lgr.With().Str("service", "event_register").Logger())
	deps.StatsService = appServices.NewStatsService(repos.StatsRepository, deps.Cache, cfg.Location(), time.Now, lgr.With().Str("service", "stats").Logger())

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.RateLimiter = appMiddleware.NewRateLimiter(redisClient, lgr)

	deps.Controllers = appRoutes.Controllers{
		Auth:           appControllers.NewAuthController(deps.AuthService),
		Course:         appControllers.NewCourseController(deps.CourseService),
		Section:        appControllers.NewSectionController(deps.SectionService, deps.LessonService),
		Lesson:         appControllers.NewLessonController(deps.LessonService),
		Enrollment:     appControllers.NewEnrollmentController(deps.EnrollmentService),
		LessonProgress: appControllers.NewLessonProgressController(deps.LessonProgressService),
		Event:          appControllers.NewEventController(deps.EventService, deps.EventRegisterService),
		Stats:          appControllers.NewStatsController(deps.StatsService),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, database *db.PostgresDB, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.CORS(cfg.Server.AllowedOrigins))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.RateLimiter)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
	router.GET("/health", healthHandler(database, deps.Redis))

	return router
}

// healthHandler reports 503 when PostgreSQL is unreachable. Redis is optional
// and only reported.
func healthHandler(database *db.PostgresDB, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{"database": "ok", "redis": "disabled"}
		if err := database.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks["database"] = err.Error()
		}
		if redisClient != nil {
			checks["redis"] = "ok"
			if err := redisClient.Ping(ctx).Err(); err != nil {
				checks["redis"] = err.Error()
			}
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{"status": state, "checks": checks})
	}
}
