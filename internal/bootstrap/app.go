package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/admin"
	googleauth "resume-builder/internal/auth"
	"resume-builder/internal/resumes"
	"resume-builder/internal/services/health"
	sharedauth "resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/storage/object"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/validation"
	"resume-builder/internal/users"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Tokens         *sharedauth.Tokens
	RenderStore    object.ObjectStore
	UsersRepo      users.Repo
	ResumesRepo    resumes.Repo
	AdminStore     admin.Store
	UsersService   *users.Service
	ResumesService *resumes.Service
	AdminService   *admin.Service
	GoogleAuth     *googleauth.GoogleService
}

// Build connects infrastructure, seeds roles and wires every handler.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	telemetry.SetLevel(cfg.LogLevel)
	validation.RegisterWithGin()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildRenderStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tokens, err := sharedauth.NewTokens(sharedauth.TokenConfig{
		Secret:     cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
		TTL:        cfg.JWTTTL,
		Production: cfg.Env == "production",
	})
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}

	app := &App{
		Config:      cfg,
		DB:          sqlDB,
		Tokens:      tokens,
		RenderStore: store,
	}
	buildRepos(app)

	app.UsersService = users.NewService(app.UsersRepo)
	if err := app.UsersService.SeedRoles(ctx); err != nil {
		return nil, fmt.Errorf("seed roles: %w", err)
	}
	if err := app.UsersService.SeedAdmin(ctx, cfg.AdminSeedEmail, cfg.AdminSeedPassword, cfg.AdminSeedName); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	var cache resumes.RenderCache
	if store != nil {
		cache = resumes.NewObjectCache(store)
	}
	app.ResumesService = resumes.NewService(app.ResumesRepo, cache)
	app.AdminService = admin.NewService(app.UsersRepo, app.AdminStore)
	app.GoogleAuth = googleauth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
		app.UsersService,
		tokens,
	)

	var pinger health.Pinger
	if sqlDB != nil {
		pinger = sqlDB
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:     cfg,
		Tokens:     tokens,
		Health:     health.NewService(pinger),
		Users:      users.NewHandler(app.UsersService, tokens),
		Resumes:    resumes.NewHandler(app.ResumesService),
		Admin:      admin.NewHandler(app.AdminService),
		GoogleAuth: app.GoogleAuth,
		AdminRole:  users.RoleAdmin,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":         cfg.Env,
		"storage":     storageName(sqlDB),
		"renderCache": cfg.RenderCache,
		"googleLogin": app.GoogleAuth.Configured(),
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultLambdaOptions()))
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	}
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			err = fmt.Errorf("migrate: %w", err)
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildRenderStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.RenderCache {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "local":
		return localstore.New(cfg.LocalStoreDir), nil
	default:
		return nil, nil
	}
}

func buildRepos(app *App) {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.AdminStore = &admin.PGStore{DB: app.DB}
		return
	}
	app.UsersRepo = users.NewMemoryRepo()
	app.ResumesRepo = resumes.NewMemoryRepo()
	app.AdminStore = admin.NewMemoryStore(app.UsersRepo, app.ResumesRepo)
}

func storageName(sqlDB *sql.DB) string {
	if sqlDB == nil {
		return health.StorageMemory
	}
	return health.StoragePostgres
}
