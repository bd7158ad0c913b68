package middleware

import (
	"net/http"
	"time"

	"github.com/tempora/deadline-service/backend/internal/observability"
)

// MetricsMiddleware records one counter increment and one latency observation
// per request. It is an independent stage and shares no state with the
// logging stages.
type MetricsMiddleware struct {
	metrics *observability.Metrics
}

// NewMetricsMiddleware creates a MetricsMiddleware for the given collector.
// A nil collector produces a no-op stage.
func NewMetricsMiddleware(metrics *observability.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: metrics}
}

// Observe wraps a handler with metric recording.
func (m *MetricsMiddleware) Observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newResponseRecorder(w, 0)
		next.ServeHTTP(rec, r)
		m.metrics.ObserveRequest(r.Method, r.URL.Path, rec.Status(), time.Since(start))
	})
}
