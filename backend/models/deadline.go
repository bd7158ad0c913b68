package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DeadlineStatus represents the lifecycle state of a deadline
type DeadlineStatus string

const (
	DeadlineStatusPending    DeadlineStatus = "pending"
	DeadlineStatusInProgress DeadlineStatus = "in_progress"
	DeadlineStatusOnHold     DeadlineStatus = "on_hold"
	DeadlineStatusCompleted  DeadlineStatus = "completed"
	DeadlineStatusCancelled  DeadlineStatus = "cancelled"
)

// Valid reports whether the status is one of the known states
func (s DeadlineStatus) Valid() bool {
	switch s {
	case DeadlineStatusPending, DeadlineStatusInProgress, DeadlineStatusOnHold,
		DeadlineStatusCompleted, DeadlineStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status ends the deadline's lifecycle
func (s DeadlineStatus) Terminal() bool {
	return s == DeadlineStatusCompleted || s == DeadlineStatusCancelled
}

// DeadlinePriority represents the urgency class of a deadline
type DeadlinePriority string

const (
	DeadlinePriorityLow      DeadlinePriority = "low"
	DeadlinePriorityMedium   DeadlinePriority = "medium"
	DeadlinePriorityHigh     DeadlinePriority = "high"
	DeadlinePriorityCritical DeadlinePriority = "critical"
)

// Valid reports whether the priority is one of the known classes
func (p DeadlinePriority) Valid() bool {
	switch p {
	case DeadlinePriorityLow, DeadlinePriorityMedium, DeadlinePriorityHigh, DeadlinePriorityCritical:
		return true
	}
	return false
}

// Weight returns the numeric urgency weight of the priority (low=1 .. critical=4).
// Unknown priorities weigh as medium.
func (p DeadlinePriority) Weight() int {
	switch p {
	case DeadlinePriorityLow:
		return 1
	case DeadlinePriorityMedium:
		return 2
	case DeadlinePriorityHigh:
		return 3
	case DeadlinePriorityCritical:
		return 4
	}
	return 2
}

// Deadline represents a tracked deadline
type Deadline struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	Title        string           `json:"title" db:"title"`
	Description  *string          `json:"description,omitempty" db:"description"`
	DeadlineDate time.Time        `json:"deadline_date" db:"deadline_date"`
	Status       DeadlineStatus   `json:"status" db:"status"`
	Priority     DeadlinePriority `json:"priority" db:"priority"`
	ProjectID    *uuid.UUID       `json:"project_id,omitempty" db:"project_id"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Deadline model
func (Deadline) TableName() string {
	return "deadlines"
}

// NewDeadline creates a new pending Deadline instance
func NewDeadline(title string, dueDate time.Time, priority DeadlinePriority) *Deadline {
	now := time.Now()
	return &Deadline{
		ID:           uuid.New(),
		Title:        title,
		DeadlineDate: dueDate,
		Status:       DeadlineStatusPending,
		Priority:     priority,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate checks the deadline's fields
func (d *Deadline) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("deadline title is required")
	}
	if d.DeadlineDate.IsZero() {
		return fmt.Errorf("deadline date is required")
	}
	if !d.Status.Valid() {
		return fmt.Errorf("invalid deadline status: %q", d.Status)
	}
	if !d.Priority.Valid() {
		return fmt.Errorf("invalid deadline priority: %q", d.Priority)
	}
	return nil
}

// IsOverdue reports whether the deadline passed without reaching a terminal state
func (d *Deadline) IsOverdue(now time.Time) bool {
	return d.DeadlineDate.Before(now) && !d.Status.Terminal()
}
