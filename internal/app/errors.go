// Package app wires the smartquotes components into one application.
package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrClosed indicates the application has been closed.
	ErrClosed = errors.New("application closed")

	// ErrNoPath indicates an operation that needs a file on a document
	// that has none.
	ErrNoPath = errors.New("document has no file path")
)

// InitError is returned when a component fails to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
