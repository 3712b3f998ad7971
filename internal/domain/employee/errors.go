package employee

import "errors"

var (
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrEmailExists            = errors.New("email already registered")
	ErrStatusConflict         = errors.New("employee attendance status changed concurrently")
	ErrLeavingDateWithoutFlag = errors.New("leaving date can only be set when employee is marked as leaving")
	ErrInvalidSalary          = errors.New("salary must be a non-negative number")
	ErrForbiddenOtherEmployee = errors.New("cannot access another employee's records")
)
