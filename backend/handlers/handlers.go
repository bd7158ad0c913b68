package handlers

import (
	"errors"
	"net/http"

	"github.com/tempora/deadline-service/backend/repositories"
	"github.com/tempora/deadline-service/backend/utils"
)

// respondServiceError maps service and repository errors to HTTP responses
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repositories.ErrDeadlineNotFound):
		_ = utils.WriteNotFound(w, "deadline not found")
	case errors.Is(err, repositories.ErrProjectNotFound):
		_ = utils.WriteNotFound(w, "project not found")
	default:
		var validationErr *utils.ValidationError
		if errors.As(err, &validationErr) {
			_ = utils.WriteUnprocessable(w, validationErr.Message, validationErr.Fields)
			return
		}
		_ = utils.WriteInternalServerError(w, err.Error())
	}
}
