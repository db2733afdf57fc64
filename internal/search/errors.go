package search

import "errors"

var (
	// ErrLocationUnavailable means no origin could be resolved from the
	// request, the device, or the actor's profile. Searches never fall
	// back to a default location.
	ErrLocationUnavailable = errors.New("search: no location available to anchor the query")

	// ErrInvalidRadius means the requested radius is zero, negative, or
	// above the configured maximum.
	ErrInvalidRadius = errors.New("search: invalid radius")
)
