package detect

import "regexp"

// Encoding is the encoding qualifier found in a preamble.
type Encoding int

const (
	// EncodingNone means no wide encoding was declared or preferred.
	EncodingNone Encoding = iota
	// EncodingWide means a UTF inputenc was declared and wide glyphs
	// are preferred.
	EncodingWide
)

// String returns the encoding name.
func (e Encoding) String() string {
	if e == EncodingWide {
		return "wide"
	}
	return "none"
}

// Signal collects the markers seen during one scan.
type Signal struct {
	// RootMarkerSeen is set by \documentclass or \begin{document}.
	RootMarkerSeen bool

	// Encoding is EncodingWide once a UTF inputenc is seen while wide
	// glyphs are preferred.
	Encoding Encoding

	// EncodingMarkerSeen is set by any UTF inputenc, regardless of the
	// preference.
	EncodingMarkerSeen bool

	// LanguageRaw is the last captured babel option, valid when
	// HasLanguage is set. It may be empty for "\usepackage[]{babel}".
	LanguageRaw string
	HasLanguage bool

	// EarlyStop is set when \begin{document} ended the scan.
	EarlyStop bool

	// Lines is the number of lines examined, including skipped ones.
	Lines int
}

var (
	// The alternation binds loosely: either "\usepackage[utf8" or
	// "16]{inputenc}" anywhere on the line.
	encodingMarker = regexp.MustCompile(`\\((use)|(Require))package\[utf(8)|(16)\]\{inputenc\}`)

	babelMarker = regexp.MustCompile(
		`\\((use)|(Require))package` +
			`(\[([\p{L}\p{N}_]+,\s*)*(?P<lang>[\p{L}\p{N}_]*)\])?` +
			`\{babel\}`)

	germanPackageMarker = regexp.MustCompile(`\\((use)|(Require))package\{([^\}]*,\s*)?n?german(\s*,[^\}]*)?\}`)

	beginDocument = regexp.MustCompile(`\\begin\{document\}`)

	babelLang = babelMarker.SubexpIndex("lang")
)

const rootMarker = "documentclass"
