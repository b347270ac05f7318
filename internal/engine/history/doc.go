// Package history records edits for undo and redo.
//
// Every edit is pushed as a Command that knows how to re-apply and revert
// itself. Edits made between BeginGroup and EndGroup are combined into one
// Batch, so a multi-cursor operation undoes in a single step:
//
//	h.BeginGroup("insert quotes")
//	defer h.EndGroup()
//
// Groups nest; only the outermost EndGroup records the batch.
package history
