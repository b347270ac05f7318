package quoting

import "errors"

var (
	// ErrInvalidQuote is returned when the language or kind has no glyph
	// pair. Nothing is inserted.
	ErrInvalidQuote = errors.New("quoting: no quote for language and kind")

	// ErrUnknownMode indicates an unsupported insertion mode.
	ErrUnknownMode = errors.New("quoting: unknown mode")
)
