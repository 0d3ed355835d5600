package announce

import "errors"

var (
	// ErrNoTemplate means no URL template was configured. This is a
	// precondition violation at the call site, not a runtime condition,
	// and is the one failure Show surfaces to its caller.
	ErrNoTemplate = errors.New("no announcement URL template configured")

	// ErrInvalidURL means placeholder substitution produced a string
	// that does not parse as a URL.
	ErrInvalidURL = errors.New("resolved announcement URL is invalid")

	// ErrShowInFlight means Show was called while a previous call on
	// the same engine was still outstanding.
	ErrShowInFlight = errors.New("announcement check already in flight")
)
