// Package quoting inserts language-specific quotation marks around the
// selections of an editing surface.
//
// The language comes from the request, the document's cached choice, or a
// fresh detection, in that order. Every insertion of one call lands in a
// single undo group.
package quoting
