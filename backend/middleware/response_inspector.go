package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tempora/deadline-service/backend/internal/observability"
	"go.uber.org/zap"
)

// maxInspectedBody bounds how much of a response body the inspector decodes.
// Larger bodies skip the deep trace rather than blocking the request.
const maxInspectedBody = 1 << 20

// TraceConfig selects which routes receive a deep response trace. It is
// read-only after startup.
type TraceConfig struct {
	// Routes is an ordered list of path fragments; a request is traced when
	// its path contains any of them.
	Routes []string

	// RedactPrefix omits any serialized key starting with this prefix.
	RedactPrefix string
}

// ResponseInspector is the specialized observation stage. For configured
// routes it emits a debug-level trace of the response body through the
// cycle-safe serializer and, for array payloads, an element count. It never
// alters the response, and inspection faults degrade silently.
type ResponseInspector struct {
	cfg    TraceConfig
	redact observability.RedactFunc
	logger *zap.Logger
}

// NewResponseInspector creates a ResponseInspector with the given route
// filter and redaction policy.
func NewResponseInspector(cfg TraceConfig, logger *zap.Logger) *ResponseInspector {
	return &ResponseInspector{
		cfg:    cfg,
		redact: observability.RedactPrefix(cfg.RedactPrefix),
		logger: logger,
	}
}

// Observe wraps a handler with response inspection on matching routes.
// Non-matching requests pass through unobserved.
func (i *ResponseInspector) Observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !i.matches(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		rec := newResponseRecorder(w, maxInspectedBody)
		next.ServeHTTP(rec, r)
		i.inspect(r, rec)
	})
}

func (i *ResponseInspector) matches(path string) bool {
	for _, fragment := range i.cfg.Routes {
		if strings.Contains(path, fragment) {
			return true
		}
	}
	return false
}

// inspect emits the deep trace for a completed request. Failures are not
// deep-traced, and any fault inside inspection is contained here.
func (i *ResponseInspector) inspect(r *http.Request, rec *responseRecorder) {
	defer func() {
		_ = recover()
	}()

	if rec.Status() >= http.StatusBadRequest {
		return
	}

	body := rec.Body()
	if len(body) == 0 {
		return
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return
	}

	method := r.Method
	path := r.URL.Path
	caller := CallerID(r.Context())

	i.logger.Debug(fmt.Sprintf("Response [%s %s] by user %s", method, path, caller),
		zap.String("body", observability.Serialize(payload, i.redact)))

	if items, ok := payload.([]any); ok {
		i.logger.Debug(fmt.Sprintf("Response [%s %s] returned %d items", method, path, len(items)))
	}
}
