package loader

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned by ForPath for an unknown extension.
	ErrUnsupportedFormat = errors.New("loader: unsupported config format")

	errInvalidJSON = errors.New("invalid JSON")
	errNotObject   = errors.New("top-level value must be an object")
)

// ParseError locates a syntax error in a settings file. Line and Column
// are 1-based and zero when the decoder does not report them.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Err    error
}

// Error formats as path:line:column: message, omitting unknown parts.
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Path)
	for _, n := range []int{e.Line, e.Column} {
		if n <= 0 {
			break
		}
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(n))
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }
