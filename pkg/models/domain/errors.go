package domain

import "errors"

var (
	// ErrPermissionDenied is returned when the session's role lacks the capability an operation requires.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound is returned when a referenced identifier does not exist in its collection.
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidArgument   = errors.New("invalid argument")
	// ErrRateLimited is returned when a call was refused locally before reaching the external system.
	ErrRateLimited = errors.New("rate limited")
)
