package language

import "errors"

// ErrUnsupported indicates a manually selected language that is not in
// the quote table.
var ErrUnsupported = errors.New("language: not supported")
