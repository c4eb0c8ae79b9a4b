package audit

import "errors"

var (
	// ErrEventValidation indicates event validation failed.
	ErrEventValidation = errors.New("event validation failed")

	// ErrSinkClosed indicates a write against a closed async sink.
	ErrSinkClosed = errors.New("audit sink is closed")

	// ErrSinkUnavailable indicates the storage backend rejected the write.
	ErrSinkUnavailable = errors.New("audit sink is unavailable")
)
