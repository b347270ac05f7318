// Package cursor manages selections.
//
// A Selection has an anchor, where it started, and a head, where typing
// occurs; an empty selection is a plain cursor. A CursorSet keeps several
// selections sorted and merges those that overlap. After an edit, Apply
// moves every selection so it keeps covering the same text.
//
// CursorSet is not safe for concurrent use.
package cursor
