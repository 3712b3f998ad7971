package task

import "errors"

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrAssigneeNotFound  = errors.New("assigned employee not found")
	ErrInvalidStatus     = errors.New("invalid task status")
	ErrInvalidPriority   = errors.New("invalid task priority")
	ErrNegativePrice     = errors.New("price must not be negative")
	ErrNotEmployeeRecord = errors.New("no employee record is linked to this account")
)
