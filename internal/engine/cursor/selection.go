package cursor

import (
	"fmt"

	"github.com/dshills/smartquotes/internal/engine/buffer"
)

type (
	ByteOffset = buffer.ByteOffset
	Range      = buffer.Range
	Edit       = buffer.Edit
)

// Selection is the text between Anchor, where the selection was started,
// and Head, where the caret is. Anchor == Head is a plain cursor.
type Selection struct {
	Anchor ByteOffset
	Head   ByteOffset
}

func NewSelection(anchor, head ByteOffset) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// NewCursorSelection returns an empty selection at offset.
func NewCursorSelection(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

func (s Selection) IsEmpty() bool     { return s.Anchor == s.Head }
func (s Selection) IsBackward() bool  { return s.Head < s.Anchor }
func (s Selection) Start() ByteOffset { return min(s.Anchor, s.Head) }
func (s Selection) End() ByteOffset   { return max(s.Anchor, s.Head) }

// Range returns the covered text as a forward range.
func (s Selection) Range() Range {
	return Range{Start: s.Start(), End: s.End()}
}

// WithRange returns a selection over r pointing the same way as s.
func (s Selection) WithRange(r Range) Selection {
	if s.IsBackward() {
		return NewSelection(r.End, r.Start)
	}
	return NewSelection(r.Start, r.End)
}

// Clamp limits both ends to [0, limit].
func (s Selection) Clamp(limit ByteOffset) Selection {
	return NewSelection(clampOffset(s.Anchor, limit), clampOffset(s.Head, limit))
}

func clampOffset(o, limit ByteOffset) ByteOffset {
	return min(max(o, 0), limit)
}

func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor(%d)", s.Head)
	}
	return fmt.Sprintf("Selection(%d->%d)", s.Anchor, s.Head)
}

// MapOffset returns where offset ends up after edit. Text inserted at the
// offset lands before it; an offset inside a replaced range moves to the
// end of the replacement.
func MapOffset(offset ByteOffset, edit Edit) ByteOffset {
	switch {
	case edit.Range.End <= offset:
		return offset + edit.Delta()
	case edit.Range.Start >= offset:
		return offset
	default:
		return edit.Range.Start + ByteOffset(len(edit.NewText))
	}
}

// MapSelection maps both ends of s through edit.
func MapSelection(s Selection, edit Edit) Selection {
	return NewSelection(MapOffset(s.Anchor, edit), MapOffset(s.Head, edit))
}
