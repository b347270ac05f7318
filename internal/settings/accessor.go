package settings

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/smartquotes/internal/config"
	"github.com/dshills/smartquotes/internal/logging"
	"github.com/dshills/smartquotes/internal/quotes"
)

// Per-document keys.
const (
	KeyCurrentLanguage = "latex_smart_quotes_current_language"
	KeyWordSeparators  = "word_separators"
)

// DefaultWordSeparators is used when a document has no word_separators
// setting of its own.
const DefaultWordSeparators = "./\\()\"'-:,.;<>~!@#$%^&*|+=[]{}`~?"

// Accessor reads and writes the smart-quote settings of one document.
type Accessor struct {
	store  Store
	cfg    *config.Config
	table  *quotes.Table
	logger *logging.Logger
}

// AccessorOption configures an Accessor.
type AccessorOption func(*Accessor)

// WithAccessorLogger receives warnings about unusable default settings.
func WithAccessorLogger(l *logging.Logger) AccessorOption {
	return func(a *Accessor) { a.logger = l }
}

// NewAccessor creates an Accessor over a document store. A nil cfg or
// table selects config.Default or quotes.Default.
func NewAccessor(store Store, cfg *config.Config, table *quotes.Table, opts ...AccessorOption) *Accessor {
	if cfg == nil {
		cfg = config.Default()
	}
	if table == nil {
		table = quotes.Default
	}
	a := &Accessor{store: store, cfg: cfg, table: table}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.OrNop(a.logger)
	return a
}

// CurrentLanguage returns the cached language of the document.
func (a *Accessor) CurrentLanguage() (quotes.Language, bool) {
	v, ok := a.store.Get(KeyCurrentLanguage)
	if !ok {
		return "", false
	}
	lang, ok := v.(string)
	if !ok || lang == "" {
		return "", false
	}
	return lang, true
}

// SetCurrentLanguage caches lang for the document. For wide languages it
// also extends the document's word separators when the
// insert_word_separators setting is on.
func (a *Accessor) SetCurrentLanguage(lang quotes.Language) {
	a.store.Set(KeyCurrentLanguage, lang)
	if quotes.IsWide(lang) && a.cfg.InsertWordSeparators() {
		a.addWordSeparators(lang)
	}
}

// DefaultLanguage returns the configured default language, always a
// member of the table: the default_language setting, else the table
// entry matching default_locale, else english-ucs when use_ucs is on,
// else english. Settings naming nothing in the table are skipped with a
// warning.
func (a *Accessor) DefaultLanguage() quotes.Language {
	wide := a.cfg.UseUCS(false)
	if lang := a.cfg.DefaultLanguage(); lang != "" {
		if a.table.Has(lang) {
			return lang
		}
		a.logger.Warn("default_language %q is not a known language", lang)
	}
	if locale := a.cfg.DefaultLocale(); locale != "" {
		lang, err := a.table.MatchLocale(locale, wide)
		if err == nil && a.table.Has(lang) {
			return lang
		}
		a.logger.Warn("default_locale %q: no matching language: %v", locale, err)
	}
	if wide {
		return quotes.EnglishUCS
	}
	return quotes.English
}

// WordSeparators returns the document's word separators.
func (a *Accessor) WordSeparators() string {
	if v, ok := a.store.Get(KeyWordSeparators); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return DefaultWordSeparators
}

// addWordSeparators appends the single-character glyphs of lang that are
// not separators yet. Nothing is written when no glyph is new.
func (a *Accessor) addWordSeparators(lang quotes.Language) {
	style, ok := a.table.Lookup(lang)
	if !ok {
		return
	}

	separators := a.WordSeparators()
	var added strings.Builder
	for _, glyph := range style.Glyphs() {
		if utf8.RuneCountInString(glyph) != 1 {
			continue
		}
		if strings.Contains(separators, glyph) || strings.Contains(added.String(), glyph) {
			continue
		}
		added.WriteString(glyph)
	}
	if added.Len() == 0 {
		return
	}
	a.store.Set(KeyWordSeparators, separators+added.String())
}
