// Package quotes holds the quote style table: for every supported language
// identifier, the opening and closing glyphs of its single and double
// quotation marks.
//
// # Language Identifiers
//
// A language identifier is a table key such as "english" or "german". The
// Unicode-glyph variant of a language carries the "-ucs" suffix
// ("english-ucs"), while the plain variant uses LaTeX escape sequences
// (“``”, “\glq”). The neutral "None" entry uses straight quotes for both kinds.
//
// # Basic Usage
//
//	pair, err := quotes.Default.Pair("german-ucs", quotes.Double)
//	if err != nil {
//	    return err
//	}
//	text := pair.Start + "Zitat" + pair.End // „Zitat“
//
// Tables can be extended at runtime with Define (used by Lua scripts); the
// package-level Default table is never modified, call Clone first.
package quotes
