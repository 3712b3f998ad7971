package archive

import "errors"

var (
	ErrNotMarkedLeaving         = errors.New("employee must be marked as leaving first")
	ErrInvalidPerformanceRating = errors.New("performance rating must be between 1 and 5")
	ErrPreviousStaffNotFound    = errors.New("previous staff record not found")
	ErrCleanupAlreadyRunning    = errors.New("cleanup is already running")
)
