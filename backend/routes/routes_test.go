package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tempora/deadline-service/backend/app"
	"github.com/tempora/deadline-service/backend/internal/observability"
	"github.com/tempora/deadline-service/backend/middleware"
	"go.uber.org/zap"
)

func newTestDeps() *app.Dependencies {
	logger := zap.NewNop()
	return &app.Dependencies{
		Logger:        logger,
		Metrics:       observability.NewMetrics(),
		Principal:     middleware.NewPrincipalResolver("", "", logger),
		RequestLogger: middleware.NewRequestLogger(logger),
		Inspector:     middleware.NewResponseInspector(middleware.TraceConfig{}, logger),
		MetricsStage:  middleware.NewMetricsMiddleware(nil),
	}
}

func TestSetupRoutes(t *testing.T) {
	router := SetupRoutes(newTestDeps())

	t.Run("healthz", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/healthz", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"ok"`)
	})

	t.Run("readyz without a database", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/readyz", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("metrics endpoint is mounted", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/metrics", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown route returns a JSON 404", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/nope", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"endpoint not found"}`, rec.Body.String())
	})
}
