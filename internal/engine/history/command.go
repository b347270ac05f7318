package history

import (
	"fmt"
	"slices"

	"github.com/dshills/smartquotes/internal/engine/buffer"
	"github.com/dshills/smartquotes/internal/engine/cursor"
)

// Command is one undoable change to a buffer and its cursors.
type Command interface {
	Execute(buf *buffer.Buffer, cursors *cursor.CursorSet) error
	Undo(buf *buffer.Buffer, cursors *cursor.CursorSet) error
	Description() string
}

// Batch is a sequence of commands that undo and redo as one step, such
// as the quotes inserted at every cursor by one command.
type Batch struct {
	Name  string
	Steps []Command
}

// NewBatch returns a Batch of steps.
func NewBatch(name string, steps ...Command) *Batch {
	return &Batch{Name: name, Steps: steps}
}

// Execute runs the steps in order. When a step fails the steps before it
// are undone, leaving the buffer as it was.
func (b *Batch) Execute(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	for i, step := range b.Steps {
		if err := step.Execute(buf, cursors); err != nil {
			for _, done := range slices.Backward(b.Steps[:i]) {
				_ = done.Undo(buf, cursors)
			}
			return fmt.Errorf("%s: step %d: %w", b.Description(), i, err)
		}
	}
	return nil
}

// Undo reverts the steps last to first.
func (b *Batch) Undo(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	for i, step := range slices.Backward(b.Steps) {
		if err := step.Undo(buf, cursors); err != nil {
			return fmt.Errorf("undo %s: step %d: %w", b.Description(), i, err)
		}
	}
	return nil
}

// Description returns the name, or describes the steps when unnamed.
func (b *Batch) Description() string {
	switch {
	case b.Name != "":
		return b.Name
	case len(b.Steps) == 1:
		return b.Steps[0].Description()
	default:
		return fmt.Sprintf("%d edits", len(b.Steps))
	}
}
