// Package buffer holds the text of one document.
//
// A Buffer stores its content as a string that is replaced on every
// edit, so the bytes of the source file, line endings included, are
// preserved exactly. All offsets are byte offsets.
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//	buf.Insert(7, "dear ")
//	buf.Text() // "Hello, dear World!"
//
// All methods are safe for concurrent use.
package buffer
