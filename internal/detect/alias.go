package detect

import (
	"fmt"
	"regexp"

	"github.com/dshills/smartquotes/internal/config"
	"github.com/dshills/smartquotes/internal/quotes"
)

// Alias folds raw babel options matching Pattern into Language.
// Patterns match at the start of the option.
type Alias struct {
	Pattern  *regexp.Regexp
	Language quotes.Language
}

// NewAlias compiles an alias. The pattern is anchored at the start of
// the raw option but not at its end, so "n?german" also folds
// "ngermanb".
func NewAlias(pattern string, lang quotes.Language) (Alias, error) {
	if pattern == "" || lang == "" {
		return Alias{}, fmt.Errorf("%w: %q → %q", ErrInvalidAlias, pattern, lang)
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return Alias{}, fmt.Errorf("%w: %v", ErrInvalidAlias, err)
	}
	return Alias{Pattern: re, Language: lang}, nil
}

func mustAlias(pattern string, lang quotes.Language) Alias {
	a, err := NewAlias(pattern, lang)
	if err != nil {
		panic(err)
	}
	return a
}

// DefaultAliases returns the built-in alias rules.
func DefaultAliases() []Alias {
	return []Alias{
		mustAlias(`n?german`, quotes.German),
		mustAlias(`(frenchb?)|(francais)|(acadian)|(canadien)`, quotes.French),
	}
}

// AliasesFromConfig compiles configured alias rules.
func AliasesFromConfig(rules []config.AliasRule) ([]Alias, error) {
	out := make([]Alias, 0, len(rules))
	for _, r := range rules {
		a, err := NewAlias(r.Pattern, r.Language)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Normalize folds raw through the first matching alias. A raw value no
// alias matches is returned unchanged.
func Normalize(raw string, aliases []Alias) quotes.Language {
	for _, a := range aliases {
		if a.Pattern.MatchString(raw) {
			return a.Language
		}
	}
	return raw
}
