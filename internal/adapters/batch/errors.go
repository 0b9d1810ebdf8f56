package batch

import "errors"

// Sentinel kinds for batch errors.
var (
	ErrStopped       = errors.New("batch pool stopped")
	ErrBatchTooLarge = errors.New("batch too large")
	ErrTaskPanicked  = errors.New("batch task panicked")
)
