package attendance

import "errors"

var (
	ErrAlreadyCheckedIn  = errors.New("employee is already punched in")
	ErrAlreadyCheckedOut = errors.New("employee is already punched out")
	ErrInvalidAction     = errors.New("action must be punch_in or punch_out")
	ErrInvalidDateRange  = errors.New("startDate must be before endDate")
)
