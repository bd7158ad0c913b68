package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/tempora/deadline-service/backend/internal/observability"
	"go.uber.org/zap"
)

// maxCapturedErrorBody bounds how much of an error response is retained to
// extract the failure message.
const maxCapturedErrorBody = 16 * 1024

// RequestLogger is the generic observation stage. It logs request entry,
// delegates to the wrapped handler, and logs exactly one terminal line per
// request: an info line on success or an error line on failure. The handler
// outcome passes through unchanged; panics are re-raised after logging.
type RequestLogger struct {
	logger *zap.Logger
}

// NewRequestLogger creates a RequestLogger emitting to the given logger.
func NewRequestLogger(logger *zap.Logger) *RequestLogger {
	return &RequestLogger{logger: logger}
}

// Observe wraps a handler with entry/terminal logging.
func (l *RequestLogger) Observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.Method
		path := r.URL.Path
		caller := CallerID(r.Context())

		l.logger.Info(fmt.Sprintf("Request [%s %s] by user %s", method, path, caller))
		start := observability.Start()

		rec := newResponseRecorder(w, maxCapturedErrorBody)

		defer func() {
			if p := recover(); p != nil {
				l.logger.Error(fmt.Sprintf("Request [%s %s] failed", method, path),
					zap.Int64("elapsed_ms", observability.ElapsedMillis(start)),
					zap.String("status", "error"),
					zap.String("error", fmt.Sprint(p)),
					zap.String("stack", string(debug.Stack())))
				panic(p)
			}
		}()

		next.ServeHTTP(rec, r)

		elapsed := observability.ElapsedMillis(start)
		if rec.Status() >= http.StatusBadRequest {
			l.logger.Error(fmt.Sprintf("Request [%s %s] failed", method, path),
				zap.Int64("elapsed_ms", elapsed),
				zap.String("status", "error"),
				zap.String("error", failureMessage(rec)))
			return
		}

		l.logger.Info(fmt.Sprintf("Request [%s %s] completed", method, path),
			zap.Int64("elapsed_ms", elapsed),
			zap.String("status", "success"))
	})
}

// failureMessage extracts a human-readable message from an error response
// body, falling back to the HTTP status text.
func failureMessage(rec *responseRecorder) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if body := rec.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err == nil {
			if payload.Message != "" {
				return payload.Message
			}
			if payload.Error != "" {
				return payload.Error
			}
		}
	}
	return http.StatusText(rec.Status())
}
