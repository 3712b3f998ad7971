package analytics

import "errors"

var (
	ErrInvalidPeriod = errors.New("period must be day, week or month")
)
