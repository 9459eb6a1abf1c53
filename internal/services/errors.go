package services

import "errors"

var (
	ErrMissingField     = errors.New("missing required field")
	ErrScheduleNotFound = errors.New("flight schedule not found in cache")
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidDelay     = errors.New("delay minutes must not be negative")
)
