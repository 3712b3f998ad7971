package salary

import "errors"

var (
	ErrInvalidSalaryAmount = errors.New("employee salary must be greater than zero")
	ErrAlreadyPaid         = errors.New("salary for current month already paid")
	ErrRecordNotFound      = errors.New("salary record not found")
	ErrInvalidMonth        = errors.New("month must be in YYYY-MM format")
)
