package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tempora/deadline-service/backend/app"
	"github.com/tempora/deadline-service/backend/models"
	"github.com/tempora/deadline-service/backend/utils"
)

// createProjectRequest is the payload for creating a project
type createProjectRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// CreateProjectHandler creates a new project
func CreateProjectHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProjectRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			_ = utils.WriteUnprocessable(w, err.Error(), utils.GetValidationFields(err))
			return
		}

		project := models.NewProject(req.Name)
		project.Description = req.Description
		if err := project.Validate(); err != nil {
			_ = utils.WriteUnprocessable(w, err.Error(), nil)
			return
		}

		if err := deps.ProjectRepo.Create(r.Context(), project); err != nil {
			respondServiceError(w, err)
			return
		}

		_ = utils.WriteJSON(w, http.StatusCreated, project)
	}
}

// GetProjectHandler retrieves a single project
func GetProjectHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ParseUUID(chi.URLParam(r, "id"))
		if err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		project, err := deps.ProjectRepo.GetByID(r.Context(), id)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		_ = utils.WriteJSON(w, http.StatusOK, project)
	}
}

// ListProjectsHandler lists all projects as a bare JSON array
func ListProjectsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := deps.ProjectRepo.List(r.Context())
		if err != nil {
			respondServiceError(w, err)
			return
		}

		if projects == nil {
			projects = []*models.Project{}
		}
		_ = utils.WriteJSON(w, http.StatusOK, projects)
	}
}
