package session

import "errors"

// Sentinel errors for the session package.
var (
	// ErrNoSession is returned by operations that need a loaded session
	// and cannot silently no-op (export, for example).
	ErrNoSession = errors.New("no session loaded")

	// ErrInvalidConfig is returned when a session config fails validation.
	ErrInvalidConfig = errors.New("invalid session config")

	// ErrInvalidImport is returned when an import payload cannot be
	// parsed or is missing required fields.
	ErrInvalidImport = errors.New("invalid import payload")
)
