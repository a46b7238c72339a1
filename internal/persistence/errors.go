package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicateDate is returned when a course already has an attendance
	// record for the given date.
	ErrDuplicateDate = errors.New("persistence: attendance already marked for date")
)
