package models

import "errors"

// Error taxonomy shared across packages. Callers match with errors.Is.
var (
	// ErrValidation marks input rejected before any store call.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an id absent from local state or the store.
	ErrNotFound = errors.New("not found")
	// ErrNetwork marks a transient store failure. Never fatal.
	ErrNetwork = errors.New("store unavailable")
	// ErrConflict marks a write the store rejected because it collides
	// with another row. Retrying alone will not fix it.
	ErrConflict = errors.New("conflicts with an existing row")
	// ErrInvalidState marks a transition the state machine forbids.
	ErrInvalidState = errors.New("invalid state")
	// ErrOutOfRange marks a pipeline stage outside the catalog.
	ErrOutOfRange = errors.New("stage out of range")
)
