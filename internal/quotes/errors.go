package quotes

import "errors"

// Errors returned by table operations.
var (
	// ErrUnknownLanguage indicates the language is not in the table.
	ErrUnknownLanguage = errors.New("quotes: unknown language")

	// ErrUnknownKind indicates an unsupported quote kind.
	ErrUnknownKind = errors.New("quotes: unknown quote kind")

	// ErrEmptyGlyph indicates a style with an empty start or end glyph.
	ErrEmptyGlyph = errors.New("quotes: empty glyph")

	// ErrNoLocaleMatch indicates no table entry matches a locale.
	ErrNoLocaleMatch = errors.New("quotes: no language matches locale")
)
