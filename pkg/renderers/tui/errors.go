package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyAttempts is returned when a field keeps failing its local
	// checks.
	ErrTooManyAttempts = errors.New("tui: too many invalid attempts")
)
