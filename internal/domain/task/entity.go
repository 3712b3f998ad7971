package task

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsOpen reports whether the task still counts as work to do.
func (s Status) IsOpen() bool {
	return s == StatusAssigned || s == StatusInProgress
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Escalation thresholds measured from task creation.
const (
	LowToMediumAfter  = 5 * time.Minute
	LowToHighAfter    = 25 * time.Minute
	MediumToHighAfter = 10 * time.Minute
)

// Escalate returns the priority a task created at createdAt should carry at
// now. It never lowers a priority.
func Escalate(p Priority, createdAt, now time.Time) Priority {
	age := now.Sub(createdAt)
	switch p {
	case PriorityLow:
		if age >= LowToHighAfter {
			return PriorityHigh
		}
		if age >= LowToMediumAfter {
			return PriorityMedium
		}
	case PriorityMedium:
		if age >= MediumToHighAfter {
			return PriorityHigh
		}
	}
	return p
}

type Task struct {
	ID          string
	Title       string
	Description string
	AssignedTo  string
	AssignedBy  string
	Status      Status
	Priority    Priority
	DueDate     time.Time
	Price       *decimal.Decimal
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Join
	AssigneeName  *string
	AssignerEmail *string
}

// SetStatus moves the task to s, stamping CompletedAt on entry to completed
// and clearing it on exit.
func (t *Task) SetStatus(s Status, now time.Time) {
	if s == StatusCompleted && t.Status != StatusCompleted {
		t.CompletedAt = &now
	}
	if s != StatusCompleted {
		t.CompletedAt = nil
	}
	t.Status = s
}
