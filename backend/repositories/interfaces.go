package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tempora/deadline-service/backend/models"
)

// Sentinel errors returned by repositories when a row does not exist.
var (
	ErrDeadlineNotFound = errors.New("deadline not found")
	ErrProjectNotFound  = errors.New("project not found")
)

// DeadlineFilter narrows List results. Nil fields are not applied.
type DeadlineFilter struct {
	Status    *models.DeadlineStatus
	ProjectID *uuid.UUID
	DueBefore *time.Time
}

// DeadlineRepository defines the interface for deadline persistence
type DeadlineRepository interface {
	Create(ctx context.Context, deadline *models.Deadline) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Deadline, error)
	List(ctx context.Context, filter DeadlineFilter) ([]*models.Deadline, error)
	Update(ctx context.Context, deadline *models.Deadline) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
}
