package lua

import "errors"

var (
	// ErrStateClosed is returned by every State method after Close.
	ErrStateClosed = errors.New("lua: state closed")

	// ErrExecutionTimeout wraps a script stopped by its per-run deadline.
	ErrExecutionTimeout = errors.New("lua: script timed out")

	// ErrInvalidStyle is raised by quotes.define for a malformed style.
	ErrInvalidStyle = errors.New("lua: invalid quote style")
)
