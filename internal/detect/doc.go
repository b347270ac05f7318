// Package detect guesses the language of a LaTeX document from its
// preamble.
//
// The detector scans the source line by line for a handful of markers:
// \documentclass (the file is a root document), an inputenc inclusion
// with a UTF option (the document can take Unicode quote glyphs), a babel
// inclusion with options (the last option is the main language), a bare
// german/ngerman package, and \begin{document}, which ends the preamble.
// No LaTeX grammar is parsed; the markers are matched with regular
// expressions against each line.
//
// The raw babel option is folded through an ordered list of aliases
// (ngerman → german, frenchb → french, ...) and qualified with the "-ucs"
// suffix when a UTF encoding was declared.
package detect
