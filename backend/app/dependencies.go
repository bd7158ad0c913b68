package app

import (
	"context"
	"fmt"

	"github.com/tempora/deadline-service/backend/config"
	"github.com/tempora/deadline-service/backend/internal/observability"
	"github.com/tempora/deadline-service/backend/middleware"
	"github.com/tempora/deadline-service/backend/repositories"
	"github.com/tempora/deadline-service/backend/repositories/postgres"
	"github.com/tempora/deadline-service/backend/services/analysis"
	"github.com/tempora/deadline-service/backend/services/deadline"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repositories
	DeadlineRepo repositories.DeadlineRepository
	ProjectRepo  repositories.ProjectRepository

	// Services
	Deadlines *deadline.Service
	Analysis  *analysis.Service

	// Observability
	Metrics *observability.Metrics

	// HTTP middleware stages
	Principal     *middleware.PrincipalResolver
	RequestLogger *middleware.RequestLogger
	Inspector     *middleware.ResponseInspector
	MetricsStage  *middleware.MetricsMiddleware
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	db, err := postgres.NewDB(cfg.Database, logger.Named("postgres"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.DB = db

	if err := db.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	deps.DeadlineRepo = postgres.NewDeadlineRepository(db, logger.Named("deadline_repo"))
	deps.ProjectRepo = postgres.NewProjectRepository(db, logger.Named("project_repo"))

	deps.Deadlines = deadline.NewService(deps.DeadlineRepo, deps.ProjectRepo, logger.Named("deadline_service"))
	deps.Analysis = analysis.NewService(logger.Named("analysis_service"))

	if cfg.Observability.MetricsEnabled {
		deps.Metrics = observability.NewMetrics()
	}

	deps.Principal = middleware.NewPrincipalResolver(cfg.Auth.JWTSecret, cfg.Auth.Issuer, logger.Named("auth"))
	deps.RequestLogger = middleware.NewRequestLogger(logger.Named("http"))
	deps.Inspector = middleware.NewResponseInspector(middleware.TraceConfig{
		Routes:       cfg.Trace.Routes,
		RedactPrefix: cfg.Trace.RedactPrefix,
	}, logger.Named("trace"))
	deps.MetricsStage = middleware.NewMetricsMiddleware(deps.Metrics)

	logger.Info("all dependencies initialized")
	return deps, nil
}

// Close releases all resources held by the dependencies
func (d *Dependencies) Close() error {
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
