package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"jobseeker-backend/internal/applications"
	"jobseeker-backend/internal/codes"
	"jobseeker-backend/internal/feedback"
	"jobseeker-backend/internal/files"
	"jobseeker-backend/internal/llm"
	"jobseeker-backend/internal/llm/openai"
	"jobseeker-backend/internal/postings"
	"jobseeker-backend/internal/resumes"
	"jobseeker-backend/internal/shared/auth"
	"jobseeker-backend/internal/shared/config"
	"jobseeker-backend/internal/shared/server"
	"jobseeker-backend/internal/shared/storage/db"
	"jobseeker-backend/internal/shared/storage/object"
	localstore "jobseeker-backend/internal/shared/storage/object/local"
	s3store "jobseeker-backend/internal/shared/storage/object/s3"
	"jobseeker-backend/internal/shared/telemetry"
)

// App holds the wired application: repositories, services, handlers, and the
// router, built once from config.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Signer *auth.Signer

	CodesRepo        codes.Repo
	FilesRepo        files.Repo
	ResumesRepo      resumes.Repo
	PostingsRepo     postings.Repo
	FeedbackRepo     feedback.Repo
	ApplicationsRepo applications.Repo

	FilesService        *files.Service
	ResumesService      *resumes.Service
	PostingsService     *postings.Service
	FeedbackService     *feedback.Service
	ApplicationsService *applications.Service
	LLMClient           llm.Client
}

// Build prepares all dependencies and the router. Without a DATABASE_URL (or
// when the database is unreachable in dev) everything runs on the in-memory
// repositories so the API stays usable locally.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	sqlDB := buildDB(ctx, cfg)
	if sqlDB == nil && cfg.Env == "production" {
		return nil, fmt.Errorf("database is required in production")
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	signer, err := auth.NewSigner(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("build signer: %w", err)
	}

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		Signer:    signer,
		LLMClient: llmClient,
	}
	app.buildRepos()
	app.buildServices()

	app.Router = server.NewRouter(server.RouterDeps{
		Config:       cfg,
		Signer:       signer,
		Resumes:      resumes.NewHandler(app.ResumesService),
		Postings:     postings.NewHandler(app.PostingsService),
		Feedback:     feedback.NewHandler(app.FeedbackService),
		Applications: applications.NewHandler(app.ApplicationsService),
	})
	return app, nil
}

func (a *App) buildRepos() {
	if a.DB != nil {
		a.CodesRepo = &codes.PGRepo{DB: a.DB}
		a.FilesRepo = &files.PGRepo{DB: a.DB}
		a.ResumesRepo = &resumes.PGRepo{DB: a.DB, Codes: a.CodesRepo}
		a.PostingsRepo = &postings.PGRepo{DB: a.DB}
		a.FeedbackRepo = &feedback.PGRepo{DB: a.DB}
		a.ApplicationsRepo = &applications.PGRepo{DB: a.DB}
		return
	}

	a.CodesRepo = codes.NewMemoryRepo()
	fileRepo := files.NewMemoryRepo()
	a.FilesRepo = fileRepo
	resumeRepo := resumes.NewMemoryRepo(a.CodesRepo)
	resumeRepo.ImageKey = func(ctx context.Context, resumeID int64) (string, error) {
		file, err := fileRepo.Latest(ctx, files.TableResumes, resumeID, files.PurposeResumeImage)
		if err != nil {
			return "", err
		}
		return file.FileKey, nil
	}
	a.ResumesRepo = resumeRepo
	a.PostingsRepo = postings.NewMemoryRepo()
	a.FeedbackRepo = feedback.NewMemoryRepo()
	a.ApplicationsRepo = applications.NewMemoryRepo()
}

func (a *App) buildServices() {
	a.FilesService = &files.Service{
		Repo:       a.FilesRepo,
		Store:      a.Store,
		MaxSize:    a.Config.ImageMaxSizeBytes,
		PresignTTL: a.Config.PresignTTL,
	}
	a.ResumesService = &resumes.Service{Repo: a.ResumesRepo, Files: a.FilesService}
	a.PostingsService = &postings.Service{Repo: a.PostingsRepo}
	a.FeedbackService = &feedback.Service{
		Repo:     a.FeedbackRepo,
		Codes:    a.CodesRepo,
		Resumes:  a.ResumesService,
		Postings: a.PostingsService,
		LLM:      a.LLMClient,
	}
	a.ApplicationsService = &applications.Service{
		Repo:     a.ApplicationsRepo,
		Resumes:  a.ResumesService,
		Postings: a.PostingsService,
	}
}

// buildDB connects and migrates. Failures are tolerated outside production so
// the memory fallback can take over.
func buildDB(ctx context.Context, cfg config.Config) *sql.DB {
	if cfg.DatabaseURL == "" {
		telemetry.Info("bootstrap.memory_mode", map[string]any{"reason": "DATABASE_URL unset"})
		return nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("bootstrap.db_connect_failed", map[string]any{"error": err.Error()})
		return nil
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("bootstrap.migrations_failed", map[string]any{"error": err.Error()})
		_ = sqlDB.Close()
		return nil
	}
	return sqlDB
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, fmt.Errorf("build s3 store: %w", err)
		}
		return store, nil
	}
	return localstore.New(cfg.LocalStoreDir), nil
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		apiKey := cfg.OpenAIAPIKey
		if apiKey == "" && cfg.Env != "production" {
			telemetry.Info("bootstrap.llm_placeholder", map[string]any{"reason": "OPENAI_API_KEY unset"})
			return llm.PlaceholderClient{}, nil
		}
		return openai.NewClient(apiKey, cfg.LLMModel)
	case "placeholder", "":
		return llm.PlaceholderClient{}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}
