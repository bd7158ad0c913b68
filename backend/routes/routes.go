package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/tempora/deadline-service/backend/app"
	"github.com/tempora/deadline-service/backend/handlers"
)

// SetupRoutes configures all application routes and middleware.
// Recoverer sits outside the request logger so that panics the logger
// re-raises still end up as 500 responses.
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Observability pipeline: resolve the caller first so the request
	// logger can attribute its lines, then record metrics, then log,
	// then trace selected response bodies.
	r.Use(deps.Principal.Resolve)
	r.Use(deps.MetricsStage.Observe)
	r.Use(deps.RequestLogger.Observe)
	r.Use(deps.Inspector.Observe)

	// Health check endpoints
	r.Get("/healthz", handlers.HealthHandler(deps))
	r.Get("/readyz", handlers.ReadinessHandler(deps))

	// Prometheus scrape endpoint
	if deps.Config == nil || deps.Config.Observability.MetricsEnabled {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/deadlines", func(r chi.Router) {
			r.Get("/", handlers.ListDeadlinesHandler(deps))
			r.Post("/", handlers.CreateDeadlineHandler(deps))
			r.Get("/stats", handlers.DeadlineStatsHandler(deps))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handlers.GetDeadlineHandler(deps))
				r.Put("/", handlers.UpdateDeadlineHandler(deps))
				r.Delete("/", handlers.DeleteDeadlineHandler(deps))
				r.Get("/analysis", handlers.DeadlineAnalysisHandler(deps))
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", handlers.ListProjectsHandler(deps))
			r.Post("/", handlers.CreateProjectHandler(deps))
			r.Get("/{id}", handlers.GetProjectHandler(deps))
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
