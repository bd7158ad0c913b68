package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestRequestLoggerSuccess(t *testing.T) {
	logger, logs := newObservedLogger()
	stage := NewRequestLogger(logger)

	handler := stage.Observe(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1},{"id":2},{"id":3}]`))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deadlines", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// The response passes through unchanged.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1},{"id":2},{"id":3}]`, rec.Body.String())

	entries := logs.All()
	require.Len(t, entries, 2, "exactly one entry line and one terminal line")

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "Request [GET /api/v1/deadlines] by user unauthenticated", entries[0].Message)

	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, "Request [GET /api/v1/deadlines] completed", entries[1].Message)
	fields := entries[1].ContextMap()
	assert.Equal(t, "success", fields["status"])
	assert.GreaterOrEqual(t, fields["elapsed_ms"].(int64), int64(0))
}

func TestRequestLoggerFailure(t *testing.T) {
	logger, logs := newObservedLogger()
	stage := NewRequestLogger(logger)

	handler := stage.Observe(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"validation_error","message":"Validation error"}`))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/deadlines", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Request [POST /api/v1/deadlines] by user unauthenticated", entries[0].Message)

	terminal := entries[1]
	assert.Equal(t, zapcore.ErrorLevel, terminal.Level)
	assert.Equal(t, "Request [POST /api/v1/deadlines] failed", terminal.Message)
	fields := terminal.ContextMap()
	assert.Equal(t, "error", fields["status"])
	assert.Equal(t, "Validation error", fields["error"])
	assert.GreaterOrEqual(t, fields["elapsed_ms"].(int64), int64(0))
}

func TestRequestLoggerPanic(t *testing.T) {
	logger, logs := newObservedLogger()
	stage := NewRequestLogger(logger)

	handler := stage.Observe(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deadlines", nil)
	rec := httptest.NewRecorder()

	// The panic is re-raised: observation never swallows the outcome.
	assert.Panics(t, func() {
		handler.ServeHTTP(rec, req)
	})

	entries := logs.All()
	require.Len(t, entries, 2)

	terminal := entries[1]
	assert.Equal(t, zapcore.ErrorLevel, terminal.Level)
	fields := terminal.ContextMap()
	assert.Equal(t, "error", fields["status"])
	assert.Equal(t, "boom", fields["error"])
	// The stack is a separate structured field, never concatenated into the
	// message.
	assert.NotEmpty(t, fields["stack"])
	assert.NotContains(t, terminal.Message, "boom")
}

func TestRequestLoggerResolvesCallerIdentity(t *testing.T) {
	logger, logs := newObservedLogger()
	stage := NewRequestLogger(logger)

	userID := uuid.New()

	handler := stage.Observe(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deadlines", nil)
	req = req.WithContext(WithPrincipal(req.Context(), &Principal{ID: userID}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Request [GET /api/v1/deadlines] by user "+userID.String(), entries[0].Message)
}

func TestRequestLoggerFailureMessageFallsBackToStatusText(t *testing.T) {
	logger, logs := newObservedLogger()
	stage := NewRequestLogger(logger)

	handler := stage.Observe(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/deadlines/nope", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Not Found", entries[1].ContextMap()["error"])
}
