package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	deps := newTestDeps(new(mockDeadlineRepo), new(mockProjectRepo))

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	HealthHandler(deps)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestReadinessHandler(t *testing.T) {
	t.Run("no database configured", func(t *testing.T) {
		deps := newTestDeps(new(mockDeadlineRepo), new(mockProjectRepo))

		req := httptest.NewRequest("GET", "/ready", nil)
		rec := httptest.NewRecorder()
		ReadinessHandler(deps)(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
