package quotes

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
)

// MatchLocale maps a BCP 47 locale such as "de-AT" to a table entry.
// When several entries share the matched base language, the one with the
// shortest identifier and the requested wide-ness wins ("german-ucs" over
// "german-chevron-ucs").
func (t *Table) MatchLocale(locale string, wide bool) (Language, error) {
	want, err := language.Parse(locale)
	if err != nil {
		return "", fmt.Errorf("parsing locale %q: %w", locale, err)
	}

	byBase := t.localeIndex()
	if len(byBase) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoLocaleMatch, locale)
	}

	bases := make([]string, 0, len(byBase))
	for base := range byBase {
		bases = append(bases, base)
	}
	sort.Strings(bases)

	tags := make([]language.Tag, 0, len(bases))
	for _, base := range bases {
		tags = append(tags, language.Make(base))
	}

	_, index, conf := language.NewMatcher(tags).Match(want)
	if conf == language.No {
		return "", fmt.Errorf("%w: %s", ErrNoLocaleMatch, locale)
	}

	candidates := byBase[bases[index]]
	var best Language
	for _, lang := range candidates {
		if IsWide(lang) != wide {
			continue
		}
		if best == "" || len(lang) < len(best) || (len(lang) == len(best) && lang < best) {
			best = lang
		}
	}
	if best == "" {
		// Only the other variant exists for this language.
		best = candidates[0]
	}
	return best, nil
}

// localeIndex groups languages by their Locale, each group sorted.
func (t *Table) localeIndex() map[string][]Language {
	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := make(map[string][]Language)
	for lang, style := range t.styles {
		if style.Locale == "" {
			continue
		}
		idx[style.Locale] = append(idx[style.Locale], lang)
	}
	for _, langs := range idx {
		sort.Strings(langs)
	}
	return idx
}
