package middleware

import (
	"bytes"
	"net/http"
)

// responseRecorder captures the status code and, up to a byte limit, the
// response body, while writing everything through to the client unchanged.
type responseRecorder struct {
	http.ResponseWriter
	status    int
	body      bytes.Buffer
	limit     int
	truncated bool
}

func newResponseRecorder(w http.ResponseWriter, limit int) *responseRecorder {
	return &responseRecorder{ResponseWriter: w, limit: limit}
}

func (r *responseRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	if remaining := r.limit - r.body.Len(); remaining > 0 {
		if len(p) > remaining {
			r.body.Write(p[:remaining])
			r.truncated = true
		} else {
			r.body.Write(p)
		}
	} else if r.limit > 0 && len(p) > 0 {
		r.truncated = true
	}
	return r.ResponseWriter.Write(p)
}

// Status returns the written status code, defaulting to 200 when the handler
// wrote a body without an explicit WriteHeader, or completed without writing.
func (r *responseRecorder) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// Body returns the captured response bytes, or nil when the capture overflowed
// the limit (a partial body is not useful to decode).
func (r *responseRecorder) Body() []byte {
	if r.truncated {
		return nil
	}
	return r.body.Bytes()
}
