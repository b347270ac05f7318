package cursor

import (
	"cmp"
	"slices"
)

// CursorSet holds at least one selection, sorted by start and without
// overlaps. The first is the primary selection.
type CursorSet struct {
	sels []Selection
}

// NewCursorSetAt returns a set with one cursor at offset.
func NewCursorSetAt(offset ByteOffset) *CursorSet {
	return &CursorSet{sels: []Selection{NewCursorSelection(offset)}}
}

func (cs *CursorSet) Primary() Selection { return cs.sels[0] }

// All returns a copy of the selections.
func (cs *CursorSet) All() []Selection { return slices.Clone(cs.sels) }

func (cs *CursorSet) Count() int { return len(cs.sels) }

// SetAll replaces the selections. An empty list leaves a cursor at 0.
func (cs *CursorSet) SetAll(sels []Selection) {
	if len(sels) == 0 {
		cs.sels = []Selection{NewCursorSelection(0)}
		return
	}
	cs.sels = slices.Clone(sels)
	cs.normalize()
}

// Clamp limits every selection to [0, limit].
func (cs *CursorSet) Clamp(limit ByteOffset) {
	for i, s := range cs.sels {
		cs.sels[i] = s.Clamp(limit)
	}
	cs.normalize()
}

// Apply maps every selection through edit.
func (cs *CursorSet) Apply(edit Edit) {
	for i, s := range cs.sels {
		cs.sels[i] = MapSelection(s, edit)
	}
	cs.normalize()
}

// normalize sorts by start, longer first on ties, and folds a selection
// into its predecessor when they overlap or are identical. Selections
// that only touch stay separate, so a cursor at the end of a selection
// survives.
func (cs *CursorSet) normalize() {
	slices.SortStableFunc(cs.sels, func(a, b Selection) int {
		if c := cmp.Compare(a.Start(), b.Start()); c != 0 {
			return c
		}
		return cmp.Compare(b.End(), a.End())
	})

	out := cs.sels[:1]
	for _, s := range cs.sels[1:] {
		last := &out[len(out)-1]
		if s.Range() == last.Range() || s.Start() < last.End() {
			*last = NewSelection(last.Start(), max(last.End(), s.End()))
			continue
		}
		out = append(out, s)
	}
	cs.sels = out
}
