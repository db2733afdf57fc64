package pitch

import "errors"

var (
	// ErrEmptyMessage is returned when the pitch message is empty or whitespace
	ErrEmptyMessage = errors.New("pitch message is required")

	// ErrDuplicateActive is returned when the doctor already has a pending or
	// accepted pitch for the job
	ErrDuplicateActive = errors.New("an active application already exists for this job")

	// ErrForbidden is returned when the acting party does not own the pitch side
	// it is trying to drive
	ErrForbidden = errors.New("not allowed to act on this application")

	// ErrInvalidTransition is returned when the pitch is no longer pending
	ErrInvalidTransition = errors.New("application was already decided")

	// ErrNotFound is returned when a pitch does not exist
	ErrNotFound = errors.New("application not found")

	// ErrJobClosed is returned when pitching a requirement that is no longer open
	ErrJobClosed = errors.New("job requirement is closed")
)
