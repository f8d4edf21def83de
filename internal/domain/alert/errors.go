package alert

import "errors"

// Alert domain errors
var (
	ErrInvalidAlertType = errors.New("invalid alert type")
	ErrQueueFull        = errors.New("alert delivery queue is full")
)
