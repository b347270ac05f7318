package detect

import "errors"

var (
	// ErrInvalidEncoding indicates a line that is not valid UTF-8 in
	// strict mode.
	ErrInvalidEncoding = errors.New("detect: line is not valid UTF-8")

	// ErrInvalidAlias indicates an alias with a bad pattern or an empty
	// language.
	ErrInvalidAlias = errors.New("detect: invalid alias")
)
