package engine

import (
	"io"
	"sync"

	"github.com/dshills/smartquotes/internal/engine/buffer"
	"github.com/dshills/smartquotes/internal/engine/cursor"
	"github.com/dshills/smartquotes/internal/engine/history"
)

type (
	ByteOffset = buffer.ByteOffset
	Range      = buffer.Range
	Edit       = buffer.Edit
	Selection  = cursor.Selection
)

// Engine is a document being edited: its text, selections and undo
// history. It satisfies quoting.Surface. All methods are safe for
// concurrent use.
type Engine struct {
	mu sync.RWMutex

	buf     *buffer.Buffer
	cursors *cursor.CursorSet
	history *history.History

	maxUndo     int
	content     string
	initialSels []Selection
}

// New creates an Engine. Without options it is empty with one cursor at
// offset 0.
func New(opts ...Option) *Engine {
	e := &Engine{maxUndo: DefaultMaxUndoEntries}
	for _, opt := range opts {
		opt(e)
	}

	e.buf = buffer.NewBufferFromString(e.content)
	e.history = history.NewHistory(e.maxUndo)
	e.cursors = cursor.NewCursorSetAt(0)
	if len(e.initialSels) > 0 {
		e.cursors.SetAll(e.initialSels)
		e.cursors.Clamp(e.buf.Len())
	}
	e.content, e.initialSels = "", nil
	return e
}

// NewFromReader creates an Engine holding everything read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(append([]Option{WithContent(string(data))}, opts...)...), nil
}

// Text returns the document text.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Text()
}

// Len returns the document length in bytes.
func (e *Engine) Len() ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Len()
}

// SetContent replaces the text, puts a single cursor at the start and
// forgets the history. It is used when a document is reloaded from disk.
func (e *Engine) SetContent(content string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf = buffer.NewBufferFromString(content)
	e.cursors = cursor.NewCursorSetAt(0)
	e.history.Clear()
}

// Insert inserts text at offset as its own undo step and returns the
// offset after the inserted text.
func (e *Engine) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	if err := e.ApplyEdits([]Edit{buffer.NewInsert(offset, text)}); err != nil {
		return 0, err
	}
	return offset + ByteOffset(len(text)), nil
}

// ApplyEdits applies edits sorted by descending offset as one undo step.
// Insertions sharing an offset land in slice order, each in front of the
// previous one. Nothing changes when an edit is out of range or the
// edits overlap.
func (e *Engine) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.cursors.All()
	replaced := make([]string, len(edits))
	for i, edit := range edits {
		replaced[i] = e.buf.TextRange(edit.Range.Start, edit.Range.End)
	}
	if err := e.buf.ApplyEdits(edits); err != nil {
		return err
	}
	for _, edit := range edits {
		e.cursors.Apply(edit)
	}

	// Undo walks the batch backwards, lowest offset first, so each step
	// sees the offsets it was applied at.
	steps := make([]history.Command, len(edits))
	for i, edit := range edits {
		steps[i] = &appliedEdit{edit: edit, replaced: replaced[i]}
	}
	steps[0].(*appliedEdit).before = before
	steps[len(steps)-1].(*appliedEdit).after = e.cursors.All()

	e.history.Push(history.NewBatch("edit", steps...))
	return nil
}

// Selections returns the selections in document order.
func (e *Engine) Selections() []Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.All()
}

// PrimarySelection returns the first selection.
func (e *Engine) PrimarySelection() Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.Primary()
}

// SetSelections replaces the selections, clamped to the text. Overlapping
// selections are merged and an empty list leaves one cursor at 0.
func (e *Engine) SetSelections(sels []Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursors.SetAll(sels)
	e.cursors.Clamp(e.buf.Len())
}

// BeginUndoGroup starts a group; edits until the matching EndUndoGroup
// undo together.
func (e *Engine) BeginUndoGroup(name string) { e.history.BeginGroup(name) }

// EndUndoGroup closes the group opened by BeginUndoGroup.
func (e *Engine) EndUndoGroup() { e.history.EndGroup() }

// Undo reverts the last step and restores the selections it started
// with.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Undo(e.buf, e.cursors)
}

// Redo re-applies the last undone step.
func (e *Engine) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Redo(e.buf, e.cursors)
}

func (e *Engine) CanUndo() bool { return e.history.CanUndo() }
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// appliedEdit records one edit of a batch. Only the first and last edit
// of a batch carry selections, so they are restored once per step.
type appliedEdit struct {
	edit     Edit
	replaced string
	before   []Selection
	after    []Selection
}

func (a *appliedEdit) inserted() Range {
	start := a.edit.Range.Start
	return Range{Start: start, End: start + ByteOffset(len(a.edit.NewText))}
}

func (a *appliedEdit) Execute(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	if _, err := buf.Replace(a.edit.Range.Start, a.edit.Range.End, a.edit.NewText); err != nil {
		return err
	}
	if a.after != nil {
		cursors.SetAll(a.after)
	}
	return nil
}

func (a *appliedEdit) Undo(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	r := a.inserted()
	if _, err := buf.Replace(r.Start, r.End, a.replaced); err != nil {
		return err
	}
	if a.before != nil {
		cursors.SetAll(a.before)
	}
	return nil
}

func (a *appliedEdit) Description() string {
	switch {
	case a.edit.IsInsert():
		return "Insert"
	case a.edit.NewText == "":
		return "Delete"
	default:
		return "Replace"
	}
}
