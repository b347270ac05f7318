package quotes

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// Language is a quote table key, optionally carrying the UCSSuffix.
type Language = string

// Well-known language identifiers.
const (
	// UCSSuffix marks the Unicode-glyph (wide encoding) variant of a language.
	UCSSuffix = "-ucs"

	English    Language = "english"
	EnglishUCS Language = "english-ucs"
	German     Language = "german"
	GermanUCS  Language = "german-ucs"
	French     Language = "french"
	FrenchUCS  Language = "french-ucs"

	// None is the neutral entry using straight quotes.
	None Language = "None"
)

// Kind selects single or double quotation marks.
type Kind uint8

const (
	// Double is the default quote kind.
	Double Kind = iota
	// Single selects single quotation marks.
	Single
)

// String returns the kind name as used in command arguments.
func (k Kind) String() string {
	switch k {
	case Double:
		return "double"
	case Single:
		return "single"
	default:
		return "unknown"
	}
}

// ParseKind parses "single" or "double". An empty string yields Double.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "double":
		return Double, nil
	case "single":
		return Single, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Pair is an opening and closing glyph.
type Pair struct {
	Start string
	End   string
}

// Style is the quote style of one language.
type Style struct {
	Single Pair
	Double Pair

	// Locale is the BCP 47 base language of the style ("en", "de").
	// Empty for styles that should never be chosen from a locale.
	Locale string
}

// Pair returns the glyph pair for a kind.
func (s Style) Pair(kind Kind) (Pair, bool) {
	switch kind {
	case Single:
		return s.Single, true
	case Double:
		return s.Double, true
	default:
		return Pair{}, false
	}
}

// Validate checks that every glyph is non-empty.
func (s Style) Validate() error {
	for _, p := range []Pair{s.Single, s.Double} {
		if p.Start == "" || p.End == "" {
			return ErrEmptyGlyph
		}
	}
	return nil
}

// Glyphs returns all four glyphs in single-start, single-end,
// double-start, double-end order.
func (s Style) Glyphs() []string {
	return []string{s.Single.Start, s.Single.End, s.Double.Start, s.Double.End}
}

// Table maps language identifiers to quote styles.
// A Table is safe for concurrent use.
type Table struct {
	mu     sync.RWMutex
	styles map[Language]Style
}

// NewTable creates a table from the given styles.
func NewTable(styles map[Language]Style) *Table {
	t := &Table{styles: make(map[Language]Style, len(styles))}
	for lang, style := range styles {
		t.styles[lang] = style
	}
	return t
}

// Default is the built-in quote style table.
var Default = NewTable(map[Language]Style{
	English: {
		Single: Pair{Start: "`", End: "'"},
		Double: Pair{Start: "``", End: "''"},
		Locale: "en",
	},
	EnglishUCS: {
		Single: Pair{Start: "‘", End: "’"},
		Double: Pair{Start: "“", End: "”"},
		Locale: "en",
	},
	German: {
		Single: Pair{Start: "\\glq ", End: "\\grq"},
		// Requires babel's German shorthands.
		Double: Pair{Start: "\"`", End: "\"'"},
		Locale: "de",
	},
	GermanUCS: {
		Single: Pair{Start: "‚", End: "‘"},
		Double: Pair{Start: "„", End: "“"},
		Locale: "de",
	},
	"german-chevron-ucs": {
		Single: Pair{Start: "›", End: "‹"},
		Double: Pair{Start: "»", End: "«"},
		Locale: "de",
	},
	French: {
		Single: Pair{Start: "\\flq ", End: "\\frq"},
		Double: Pair{Start: "\\flqq ", End: "\\frqq"},
		Locale: "fr",
	},
	"french-babel": {
		Single: Pair{Start: "‹", End: "›"},
		Double: Pair{Start: "\\og ", End: " \\fg{}"},
		Locale: "fr",
	},
	FrenchUCS: {
		Single: Pair{Start: "‹", End: "›"},
		Double: Pair{Start: "«", End: "»"},
		Locale: "fr",
	},
	None: {
		Single: Pair{Start: "'", End: "'"},
		Double: Pair{Start: "\"", End: "\""},
	},
})

// Lookup returns the style for a language.
func (t *Table) Lookup(lang Language) (Style, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.styles[lang]
	return s, ok
}

// Has returns true if the language is in the table.
func (t *Table) Has(lang Language) bool {
	_, ok := t.Lookup(lang)
	return ok
}

// Len returns the number of languages.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.styles)
}

// Pair returns the glyph pair for a language and kind.
func (t *Table) Pair(lang Language, kind Kind) (Pair, error) {
	style, ok := t.Lookup(lang)
	if !ok {
		return Pair{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	p, ok := style.Pair(kind)
	if !ok {
		return Pair{}, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
	return p, nil
}

// Define adds or replaces a language.
func (t *Table) Define(lang Language, style Style) error {
	if lang == "" {
		return fmt.Errorf("%w: empty identifier", ErrUnknownLanguage)
	}
	if err := style.Validate(); err != nil {
		return fmt.Errorf("language %q: %w", lang, err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.styles[lang] = style
	return nil
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() *Table {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return NewTable(t.styles)
}

// Languages returns all identifiers sorted case-insensitively,
// with None last.
func (t *Table) Languages() []Language {
	t.mu.RLock()
	langs := make([]Language, 0, len(t.styles))
	for lang := range t.styles {
		langs = append(langs, lang)
	}
	t.mu.RUnlock()

	fold := cases.Fold()
	sort.SliceStable(langs, func(i, j int) bool {
		a, b := langs[i], langs[j]
		if a == None || b == None {
			return b == None && a != None
		}
		fa, fb := fold.String(a), fold.String(b)
		if fa != fb {
			return fa < fb
		}
		return a < b
	})
	return langs
}

// Example renders a one-line usage sample of a language's quotes.
func (t *Table) Example(lang Language) string {
	s, ok := t.Lookup(lang)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%ssingle%s  -  %sdouble%s",
		s.Single.Start, s.Single.End, s.Double.Start, s.Double.End)
}

// IsWide returns true if the identifier carries the UCSSuffix.
func IsWide(lang Language) bool {
	return strings.HasSuffix(lang, UCSSuffix)
}

// StripWide removes the UCSSuffix if present.
func StripWide(lang Language) Language {
	return strings.TrimSuffix(lang, UCSSuffix)
}

// WithWide appends the UCSSuffix.
func WithWide(lang Language) Language {
	return lang + UCSSuffix
}
