package attendance

import "errors"

// Attendance domain errors
var (
	ErrRecordNotFound    = errors.New("attendance record not found")
	ErrNoOpenSession     = errors.New("no active session found for today")
	ErrAlreadyCheckedOut = errors.New("attendance record is already checked out")
)
