package utils

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Run("writes status and body", func(t *testing.T) {
		rec := httptest.NewRecorder()

		err := WriteJSON(rec, 201, map[string]string{"title": "Report"})
		require.NoError(t, err)

		assert.Equal(t, 201, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"title":"Report"}`, rec.Body.String())
	})

	t.Run("nil data writes no body", func(t *testing.T) {
		rec := httptest.NewRecorder()

		require.NoError(t, WriteJSON(rec, 200, nil))
		assert.Empty(t, rec.Body.String())
	})
}

func TestErrorWriters(t *testing.T) {
	t.Run("not found carries a message field", func(t *testing.T) {
		rec := httptest.NewRecorder()

		require.NoError(t, WriteNotFound(rec, "deadline not found"))

		assert.Equal(t, 404, rec.Code)
		assert.JSONEq(t, `{"error":"not_found","message":"deadline not found"}`, rec.Body.String())
	})

	t.Run("bad request includes details", func(t *testing.T) {
		rec := httptest.NewRecorder()

		require.NoError(t, WriteBadRequest(rec, "Validation failed", map[string]string{"Title": "Title is required"}))

		assert.Equal(t, 400, rec.Code)
		assert.Contains(t, rec.Body.String(), "Title is required")
	})

	t.Run("internal error defaults its message", func(t *testing.T) {
		rec := httptest.NewRecorder()

		require.NoError(t, WriteInternalServerError(rec, ""))

		assert.Equal(t, 500, rec.Code)
		assert.Contains(t, rec.Body.String(), "Internal server error")
	})
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
	}

	t.Run("decodes a valid body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"Report"}`))

		var p payload
		require.NoError(t, DecodeJSON(req, &p))
		assert.Equal(t, "Report", p.Title)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"bogus":true}`))

		var p payload
		assert.Error(t, DecodeJSON(req, &p))
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(""))

		var p payload
		err := DecodeJSON(req, &p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})
}
