// Package engine is the in-memory editing surface the quote commands work
// against when they run outside an editor.
//
// An Engine combines a text buffer, a multi-cursor selection set and an
// undo history behind one mutex:
//
//	e := engine.New(engine.WithContent("say hello"))
//	e.SetSelections([]engine.Selection{cursor.NewSelection(4, 9)})
//
//	e.BeginUndoGroup("insert quotes")
//	_ = e.ApplyEdits([]engine.Edit{
//		buffer.NewInsert(9, "''"),
//		buffer.NewInsert(4, "``"),
//	})
//	e.EndUndoGroup()
//
//	e.Text() // "say ``hello''"
//	e.Undo() // "say hello"
//
// Every edit moves the selections with it: text inserted at or before a
// cursor pushes the cursor right. Batched edits passed to ApplyEdits must
// be sorted by descending offset and are undone as a single step.
package engine
