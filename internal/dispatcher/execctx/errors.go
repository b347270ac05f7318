package execctx

import "errors"

// Context validation errors.
var (
	// ErrMissingDocument indicates the document is required but not set.
	ErrMissingDocument = errors.New("execution context: document is required")

	// ErrMissingSurface indicates the editing surface is required but not set.
	ErrMissingSurface = errors.New("execution context: editing surface is required")

	// ErrMissingPicker indicates a picker is required but not set.
	ErrMissingPicker = errors.New("execution context: picker is required")
)
