package history

import (
	"errors"
	"sync"

	"github.com/dshills/smartquotes/internal/engine/buffer"
	"github.com/dshills/smartquotes/internal/engine/cursor"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries bounds the timeline when NewHistory gets no limit.
const DefaultMaxEntries = 1000

// History is a timeline of commands. Entries before the position can be
// undone; entries from it on can be redone. Recording a command drops
// everything that could be redone.
type History struct {
	mu sync.Mutex

	entries []Command
	pos     int
	limit   int

	group *openGroup
}

type openGroup struct {
	name  string
	depth int
	steps []Command
}

// NewHistory returns an empty History holding at most limit entries.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultMaxEntries
	}
	return &History{limit: limit}
}

// Push records an already executed command, or adds it to the open
// group.
func (h *History) Push(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.group != nil {
		h.group.steps = append(h.group.steps, cmd)
		return
	}
	h.record(cmd)
}

func (h *History) record(cmd Command) {
	h.entries = append(h.entries[:h.pos], cmd)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = h.entries[over:]
	}
	h.pos = len(h.entries)
}

// Undo reverts the entry before the position. A failed undo leaves the
// position where it was.
func (h *History) Undo(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pos == 0 {
		return ErrNothingToUndo
	}
	if err := h.entries[h.pos-1].Undo(buf, cursors); err != nil {
		return err
	}
	h.pos--
	return nil
}

// Redo re-applies the entry at the position.
func (h *History) Redo(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pos == len(h.entries) {
		return ErrNothingToRedo
	}
	if err := h.entries[h.pos].Execute(buf, cursors); err != nil {
		return err
	}
	h.pos++
	return nil
}

func (h *History) CanUndo() bool {
	undo, _ := h.Counts()
	return undo > 0
}

func (h *History) CanRedo() bool {
	_, redo := h.Counts()
	return redo > 0
}

// Counts returns how many steps can be undone and redone.
func (h *History) Counts() (undo, redo int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos, len(h.entries) - h.pos
}

// Last returns the description of the entry Undo would revert.
func (h *History) Last() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pos == 0 {
		return "", false
	}
	return h.entries[h.pos-1].Description(), true
}

// BeginGroup opens a group. Groups nest; the outermost one names the
// batch.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.group == nil {
		h.group = &openGroup{name: name}
	}
	h.group.depth++
}

// EndGroup closes the innermost group. Closing the outermost one records
// its commands as a single Batch; an empty group records nothing. Extra
// calls are ignored.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	g := h.group
	if g == nil {
		return
	}
	if g.depth--; g.depth > 0 {
		return
	}
	h.group = nil
	if len(g.steps) > 0 {
		h.record(NewBatch(g.name, g.steps...))
	}
}

// Grouping reports whether a group is open.
func (h *History) Grouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.group != nil
}

// Clear forgets every entry and any open group.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil
	h.pos = 0
	h.group = nil
}
