package dispatcher

import "errors"

var (
	// ErrNoHandler is returned for an action name nothing is registered
	// for, including unknown actions inside a known namespace.
	ErrNoHandler = errors.New("dispatcher: no handler")

	// ErrPanic wraps a recovered handler panic.
	ErrPanic = errors.New("dispatcher: handler panicked")
)
