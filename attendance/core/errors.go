package core

import "errors"

// Business-rule failures. Handlers translate these to HTTP statuses; they
// are always detected before any mutation is applied.
var (
	ErrNotFound       = errors.New("session not found")
	ErrConflict       = errors.New("an open session already exists for this employee")
	ErrNotAWorkingDay = errors.New("not a working day")
	ErrOutsideWindow  = errors.New("time in is outside the shift window")
	ErrInvalidTime    = errors.New("invalid time")
	ErrInvalidBreak   = errors.New("break interval is not contained in the work interval")
	ErrAlreadyClosed  = errors.New("session is already closed")
	ErrNotPending     = errors.New("session is not pending review")
	ErrInvalidStatus  = errors.New("invalid status value")
	ErrStaleSession   = errors.New("session was modified concurrently")
)
