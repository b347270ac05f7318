package quotes

import (
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableGlyphsNonEmpty(t *testing.T) {
	for _, lang := range Default.Languages() {
		style, ok := Default.Lookup(lang)
		require.True(t, ok, lang)
		for _, kind := range []Kind{Single, Double} {
			p, err := Default.Pair(lang, kind)
			require.NoError(t, err)
			assert.NotEmpty(t, p.Start, "%s %s start", lang, kind)
			assert.NotEmpty(t, p.End, "%s %s end", lang, kind)
		}
		assert.NoError(t, style.Validate(), lang)
	}
}

func TestDefaultTableRequiredEntries(t *testing.T) {
	for _, lang := range []Language{
		English, EnglishUCS, German, GermanUCS, "german-chevron-ucs",
		French, FrenchUCS, None,
	} {
		assert.True(t, Default.Has(lang), lang)
	}
}

func TestUCSVariantsUseQuotationPunctuation(t *testing.T) {
	for _, lang := range Default.Languages() {
		if !IsWide(lang) {
			continue
		}
		style, _ := Default.Lookup(lang)
		for _, g := range style.Glyphs() {
			r, size := utf8.DecodeRuneInString(g)
			require.Equal(t, len(g), size, "%s: %q is not a single rune", lang, g)
			assert.True(t, unicode.In(r, unicode.Pi, unicode.Pf, unicode.Ps, unicode.Pe, unicode.Po),
				"%s: %q is not punctuation", lang, g)
		}
	}
}

func TestEnglishUCSDoubleQuotes(t *testing.T) {
	p, err := Default.Pair(EnglishUCS, Double)
	require.NoError(t, err)
	assert.Equal(t, "“", p.Start)
	assert.Equal(t, "”", p.End)
}

func TestPairErrors(t *testing.T) {
	_, err := Default.Pair("klingon", Double)
	assert.ErrorIs(t, err, ErrUnknownLanguage)

	_, err = Default.Pair(English, Kind(42))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", Double, false},
		{"double", Double, false},
		{"single", Single, false},
		{"triple", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseKind(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrUnknownKind, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestLanguagesSortedWithNoneLast(t *testing.T) {
	langs := Default.Languages()
	require.Len(t, langs, Default.Len())
	assert.Equal(t, None, langs[len(langs)-1])
	assert.Equal(t, []Language{
		"english", "english-ucs",
		"french", "french-babel", "french-ucs",
		"german", "german-chevron-ucs", "german-ucs",
		"None",
	}, langs)
}

func TestLanguagesCaseInsensitive(t *testing.T) {
	tbl := Default.Clone()
	style, _ := tbl.Lookup(English)
	require.NoError(t, tbl.Define("Dutch", style))
	require.NoError(t, tbl.Define("aardvark", style))

	langs := tbl.Languages()
	assert.Equal(t, "aardvark", langs[0])
	assert.Equal(t, "Dutch", langs[1])
	assert.Equal(t, None, langs[len(langs)-1])
}

func TestExample(t *testing.T) {
	assert.Equal(t, "`single'  -  ``double''", Default.Example(English))
	assert.Equal(t, "‘single’  -  “double”", Default.Example(EnglishUCS))
	assert.Equal(t, "", Default.Example("klingon"))
}

func TestDefineValidatesAndDoesNotTouchDefault(t *testing.T) {
	tbl := Default.Clone()
	err := tbl.Define("broken", Style{Single: Pair{Start: "<"}})
	assert.ErrorIs(t, err, ErrEmptyGlyph)

	spanish := Style{
		Single: Pair{Start: "‹", End: "›"},
		Double: Pair{Start: "«", End: "»"},
		Locale: "es",
	}
	require.NoError(t, tbl.Define("spanish-ucs", spanish))
	assert.True(t, tbl.Has("spanish-ucs"))
	assert.False(t, Default.Has("spanish-ucs"))
}

func TestWideHelpers(t *testing.T) {
	assert.True(t, IsWide("german-ucs"))
	assert.False(t, IsWide("german"))
	assert.Equal(t, "german", StripWide("german-ucs"))
	assert.Equal(t, "german", StripWide("german"))
	assert.Equal(t, "german-ucs", WithWide("german"))
}
