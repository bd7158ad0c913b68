package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tempora/deadline-service/backend/app"
	"github.com/tempora/deadline-service/backend/models"
	"github.com/tempora/deadline-service/backend/repositories"
	"github.com/tempora/deadline-service/backend/services/deadline"
	"github.com/tempora/deadline-service/backend/utils"
)

// createDeadlineRequest is the payload for creating a deadline
type createDeadlineRequest struct {
	Title        string    `json:"title" validate:"required,max=255"`
	Description  *string   `json:"description" validate:"omitempty,max=2000"`
	DeadlineDate time.Time `json:"deadline_date" validate:"required"`
	Priority     string    `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	ProjectID    *string   `json:"project_id" validate:"omitempty,uuid"`
}

// updateDeadlineRequest is the payload for partially updating a deadline
type updateDeadlineRequest struct {
	Title        *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description  *string    `json:"description" validate:"omitempty,max=2000"`
	DeadlineDate *time.Time `json:"deadline_date"`
	Status       *string    `json:"status" validate:"omitempty,oneof=pending in_progress on_hold completed cancelled"`
	Priority     *string    `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	ProjectID    *string    `json:"project_id" validate:"omitempty,uuid"`
}

// CreateDeadlineHandler creates a new deadline
func CreateDeadlineHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createDeadlineRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			_ = utils.WriteUnprocessable(w, err.Error(), utils.GetValidationFields(err))
			return
		}

		input := deadline.CreateInput{
			Title:        req.Title,
			Description:  req.Description,
			DeadlineDate: req.DeadlineDate,
			Priority:     models.DeadlinePriority(req.Priority),
		}
		if req.ProjectID != nil {
			projectID, err := utils.ParseUUID(*req.ProjectID)
			if err != nil {
				_ = utils.WriteBadRequest(w, err.Error(), nil)
				return
			}
			input.ProjectID = &projectID
		}

		d, err := deps.Deadlines.Create(r.Context(), input)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		_ = utils.WriteJSON(w, http.StatusCreated, d)
	}
}

// ListDeadlinesHandler lists deadlines, optionally filtered by status,
// project or overdue state. The response body is a bare JSON array.
func ListDeadlinesHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("overdue") == "true" {
			overdue, err := deps.Deadlines.Overdue(r.Context(), time.Now())
			if err != nil {
				respondServiceError(w, err)
				return
			}
			writeDeadlines(w, overdue)
			return
		}

		var filter repositories.DeadlineFilter
		if raw := r.URL.Query().Get("status"); raw != "" {
			status := models.DeadlineStatus(raw)
			if !status.Valid() {
				_ = utils.WriteBadRequest(w, "unknown status: "+raw, nil)
				return
			}
			filter.Status = &status
		}
		if raw := r.URL.Query().Get("project_id"); raw != "" {
			projectID, err := utils.ParseUUID(raw)
			if err != nil {
				_ = utils.WriteBadRequest(w, err.Error(), nil)
				return
			}
			filter.ProjectID = &projectID
		}

		deadlines, err := deps.Deadlines.List(r.Context(), filter)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		writeDeadlines(w, deadlines)
	}
}

// writeDeadlines writes a deadline list as a bare array, never null
func writeDeadlines(w http.ResponseWriter, deadlines []*models.Deadline) {
	if deadlines == nil {
		deadlines = []*models.Deadline{}
	}
	_ = utils.WriteJSON(w, http.StatusOK, deadlines)
}

// GetDeadlineHandler retrieves a single deadline
func GetDeadlineHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := deadlineID(w, r)
		if !ok {
			return
		}

		d, err := deps.Deadlines.Get(r.Context(), id)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		_ = utils.WriteJSON(w, http.StatusOK, d)
	}
}

// UpdateDeadlineHandler applies a partial update to a deadline
func UpdateDeadlineHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := deadlineID(w, r)
		if !ok {
			return
		}

		var req updateDeadlineRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			_ = utils.WriteUnprocessable(w, err.Error(), utils.GetValidationFields(err))
			return
		}

		input := deadline.UpdateInput{
			Title:        req.Title,
			Description:  req.Description,
			DeadlineDate: req.DeadlineDate,
		}
		if req.Status != nil {
			status := models.DeadlineStatus(*req.Status)
			input.Status = &status
		}
		if req.Priority != nil {
			priority := models.DeadlinePriority(*req.Priority)
			input.Priority = &priority
		}
		if req.ProjectID != nil {
			projectID, err := utils.ParseUUID(*req.ProjectID)
			if err != nil {
				_ = utils.WriteBadRequest(w, err.Error(), nil)
				return
			}
			input.ProjectID = &projectID
		}

		d, err := deps.Deadlines.Update(r.Context(), id, input)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		_ = utils.WriteJSON(w, http.StatusOK, d)
	}
}

// DeleteDeadlineHandler removes a deadline
func DeleteDeadlineHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := deadlineID(w, r)
		if !ok {
			return
		}

		if err := deps.Deadlines.Delete(r.Context(), id); err != nil {
			respondServiceError(w, err)
			return
		}

		utils.WriteNoContent(w)
	}
}

// DeadlineAnalysisHandler returns the risk analysis for a deadline.
// An optional "historical" query parameter in [0, 1] blends in the
// caller's prior completion rate.
func DeadlineAnalysisHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := deadlineID(w, r)
		if !ok {
			return
		}

		historical := -1.0
		if raw := r.URL.Query().Get("historical"); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil || parsed < 0 || parsed > 1 {
				_ = utils.WriteBadRequest(w, "historical must be a number between 0 and 1", nil)
				return
			}
			historical = parsed
		}

		d, err := deps.Deadlines.Get(r.Context(), id)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		result := deps.Analysis.Analyze(d, time.Now(), historical)
		_ = utils.WriteJSON(w, http.StatusOK, result)
	}
}

// DeadlineStatsHandler returns aggregate statistics over all deadlines
func DeadlineStatsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deadlines, err := deps.Deadlines.List(r.Context(), repositories.DeadlineFilter{})
		if err != nil {
			respondServiceError(w, err)
			return
		}

		stats := deps.Analysis.ComputeStats(deadlines, time.Now())
		_ = utils.WriteJSON(w, http.StatusOK, stats)
	}
}

// deadlineID extracts and validates the {id} path parameter
func deadlineID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return uuid.Nil, false
	}
	return id, true
}
