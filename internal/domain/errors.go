package domain

import "errors"

// Lifecycle outcomes. These are expected business results, returned as
// ordinary error values and matched with errors.Is.
var (
	// ErrDuplicateActiveSession indicates a start was attempted while the
	// owner already has an active session.
	ErrDuplicateActiveSession = errors.New("an active session already exists for this owner")

	// ErrNoActiveSession indicates pause or resume found no active session.
	ErrNoActiveSession = errors.New("no active session")

	// ErrAlreadyPaused indicates a pause against a session that is paused.
	ErrAlreadyPaused = errors.New("session is already paused")

	// ErrNotPaused indicates a resume against a session that is running.
	ErrNotPaused = errors.New("session is not paused")

	// ErrSessionNotFound indicates the referenced session id does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrOwnership indicates the caller does not own the session.
	ErrOwnership = errors.New("session belongs to another owner")

	// ErrAlreadyCompleted indicates an end against a completed session.
	ErrAlreadyCompleted = errors.New("session is already completed")

	// ErrStateConflict indicates a conditional update lost a race with a
	// concurrent transition. Callers may retry.
	ErrStateConflict = errors.New("session state changed concurrently")

	// ErrInvalidInput indicates a malformed request (blank ids, bad ranges).
	ErrInvalidInput = errors.New("invalid input")
)

// IsRetryable reports whether err is a transient state conflict that a
// caller may retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStateConflict)
}
