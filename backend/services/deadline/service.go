package deadline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tempora/deadline-service/backend/models"
	"github.com/tempora/deadline-service/backend/repositories"
	"go.uber.org/zap"
)

// Service implements deadline business logic on top of the repositories
type Service struct {
	deadlines repositories.DeadlineRepository
	projects  repositories.ProjectRepository
	logger    *zap.Logger
}

// NewService creates a new deadline Service
func NewService(deadlines repositories.DeadlineRepository, projects repositories.ProjectRepository, logger *zap.Logger) *Service {
	return &Service{
		deadlines: deadlines,
		projects:  projects,
		logger:    logger,
	}
}

// CreateInput carries the fields accepted when creating a deadline
type CreateInput struct {
	Title        string                  `json:"title"`
	Description  *string                 `json:"description"`
	DeadlineDate time.Time               `json:"deadline_date"`
	Priority     models.DeadlinePriority `json:"priority"`
	ProjectID    *uuid.UUID              `json:"project_id"`
}

// Create validates the input and stores a new deadline
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Deadline, error) {
	if input.Priority == "" {
		input.Priority = models.DeadlinePriorityMedium
	}

	d := models.NewDeadline(input.Title, input.DeadlineDate, input.Priority)
	d.Description = input.Description
	d.ProjectID = input.ProjectID

	if err := d.Validate(); err != nil {
		return nil, err
	}

	if input.ProjectID != nil {
		if _, err := s.projects.GetByID(ctx, *input.ProjectID); err != nil {
			return nil, fmt.Errorf("failed to resolve project: %w", err)
		}
	}

	if err := s.deadlines.Create(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("deadline created",
		zap.String("id", d.ID.String()),
		zap.String("priority", string(d.Priority)))
	return d, nil
}

// Get retrieves a deadline by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Deadline, error) {
	return s.deadlines.GetByID(ctx, id)
}

// List retrieves deadlines matching the filter
func (s *Service) List(ctx context.Context, filter repositories.DeadlineFilter) ([]*models.Deadline, error) {
	return s.deadlines.List(ctx, filter)
}

// Overdue retrieves deadlines past their date that are not in a terminal state
func (s *Service) Overdue(ctx context.Context, now time.Time) ([]*models.Deadline, error) {
	candidates, err := s.deadlines.List(ctx, repositories.DeadlineFilter{DueBefore: &now})
	if err != nil {
		return nil, err
	}

	overdue := make([]*models.Deadline, 0, len(candidates))
	for _, d := range candidates {
		if d.IsOverdue(now) {
			overdue = append(overdue, d)
		}
	}
	return overdue, nil
}

// UpdateInput carries the fields accepted when updating a deadline.
// Nil fields are left unchanged.
type UpdateInput struct {
	Title        *string                  `json:"title"`
	Description  *string                  `json:"description"`
	DeadlineDate *time.Time               `json:"deadline_date"`
	Status       *models.DeadlineStatus   `json:"status"`
	Priority     *models.DeadlinePriority `json:"priority"`
	ProjectID    *uuid.UUID               `json:"project_id"`
}

// Update applies a partial update to an existing deadline
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Deadline, error) {
	d, err := s.deadlines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		d.Title = *input.Title
	}
	if input.Description != nil {
		d.Description = input.Description
	}
	if input.DeadlineDate != nil {
		d.DeadlineDate = *input.DeadlineDate
	}
	if input.Status != nil {
		d.Status = *input.Status
	}
	if input.Priority != nil {
		d.Priority = *input.Priority
	}
	if input.ProjectID != nil {
		if _, err := s.projects.GetByID(ctx, *input.ProjectID); err != nil {
			return nil, fmt.Errorf("failed to resolve project: %w", err)
		}
		d.ProjectID = input.ProjectID
	}
	d.UpdatedAt = time.Now()

	if err := d.Validate(); err != nil {
		return nil, err
	}

	if err := s.deadlines.Update(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("deadline updated", zap.String("id", d.ID.String()))
	return d, nil
}

// Delete removes a deadline
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.deadlines.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deadline deleted", zap.String("id", id.String()))
	return nil
}
