package settings

import "errors"

var (
	// ErrCorruptState indicates a state file that could not be decoded.
	ErrCorruptState = errors.New("settings: corrupt state file")

	// ErrSchemaVersion indicates a state file written by a newer version.
	ErrSchemaVersion = errors.New("settings: unsupported state schema")
)
