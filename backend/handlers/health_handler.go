package handlers

import (
	"net/http"
	"time"

	"github.com/tempora/deadline-service/backend/app"
	"github.com/tempora/deadline-service/backend/utils"
	"go.uber.org/zap"
)

// healthResponse is the body returned by the health endpoints
type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthHandler reports process liveness
func HealthHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteJSON(w, http.StatusOK, healthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
		})
	}
}

// ReadinessHandler reports whether the service can reach its database
func ReadinessHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.DB == nil {
			_ = utils.WriteServiceUnavailable(w, "database not configured")
			return
		}
		if err := deps.DB.HealthCheck(r.Context()); err != nil {
			deps.Logger.Warn("readiness check failed", zap.Error(err))
			_ = utils.WriteServiceUnavailable(w, "database unreachable")
			return
		}

		_ = utils.WriteJSON(w, http.StatusOK, healthResponse{
			Status:    "ready",
			Timestamp: time.Now(),
		})
	}
}
