package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tempora/deadline-service/backend/models"
	"github.com/tempora/deadline-service/backend/repositories"
	"go.uber.org/zap"
)

// DeadlineRepository implements the repositories.DeadlineRepository interface
type DeadlineRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewDeadlineRepository creates a new deadline repository
func NewDeadlineRepository(db *DB, logger *zap.Logger) repositories.DeadlineRepository {
	return &DeadlineRepository{
		db:     db,
		logger: logger,
	}
}

const deadlineColumns = "id, title, description, deadline_date, status, priority, project_id, created_at, updated_at"

// Create creates a new deadline
func (r *DeadlineRepository) Create(ctx context.Context, deadline *models.Deadline) error {
	query := `
		INSERT INTO deadlines (` + deadlineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		deadline.ID,
		deadline.Title,
		deadline.Description,
		deadline.DeadlineDate,
		deadline.Status,
		deadline.Priority,
		deadline.ProjectID,
		deadline.CreatedAt,
		deadline.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create deadline: %w", err)
	}

	r.logger.Debug("deadline created", zap.String("id", deadline.ID.String()))
	return nil
}

// GetByID retrieves a deadline by ID
func (r *DeadlineRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Deadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM deadlines WHERE id = $1`

	deadline := &models.Deadline{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&deadline.ID,
		&deadline.Title,
		&deadline.Description,
		&deadline.DeadlineDate,
		&deadline.Status,
		&deadline.Priority,
		&deadline.ProjectID,
		&deadline.CreatedAt,
		&deadline.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrDeadlineNotFound
		}
		return nil, fmt.Errorf("failed to get deadline: %w", err)
	}

	return deadline, nil
}

// List retrieves deadlines matching the filter, soonest due first
func (r *DeadlineRepository) List(ctx context.Context, filter repositories.DeadlineFilter) ([]*models.Deadline, error) {
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		conditions = append(conditions, "project_id = $"+strconv.Itoa(len(args)))
	}
	if filter.DueBefore != nil {
		args = append(args, *filter.DueBefore)
		conditions = append(conditions, "deadline_date < $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + deadlineColumns + ` FROM deadlines`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY deadline_date ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list deadlines: %w", err)
	}
	defer rows.Close()

	var deadlines []*models.Deadline
	for rows.Next() {
		deadline := &models.Deadline{}
		if err := rows.Scan(
			&deadline.ID,
			&deadline.Title,
			&deadline.Description,
			&deadline.DeadlineDate,
			&deadline.Status,
			&deadline.Priority,
			&deadline.ProjectID,
			&deadline.CreatedAt,
			&deadline.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deadline: %w", err)
		}
		deadlines = append(deadlines, deadline)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deadlines: %w", err)
	}

	return deadlines, nil
}

// Update updates an existing deadline
func (r *DeadlineRepository) Update(ctx context.Context, deadline *models.Deadline) error {
	query := `
		UPDATE deadlines
		SET title = $2, description = $3, deadline_date = $4, status = $5,
			priority = $6, project_id = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		deadline.ID,
		deadline.Title,
		deadline.Description,
		deadline.DeadlineDate,
		deadline.Status,
		deadline.Priority,
		deadline.ProjectID,
		deadline.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update deadline: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return repositories.ErrDeadlineNotFound
	}

	r.logger.Debug("deadline updated", zap.String("id", deadline.ID.String()))
	return nil
}

// Delete removes a deadline
func (r *DeadlineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM deadlines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deadline: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return repositories.ErrDeadlineNotFound
	}

	r.logger.Debug("deadline deleted", zap.String("id", id.String()))
	return nil
}
