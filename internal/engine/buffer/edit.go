package buffer

import "fmt"

// ByteOffset is a position in a buffer, counted in bytes.
type ByteOffset = int64

// Range is the half-open byte span [Start, End).
type Range struct {
	Start ByteOffset
	End   ByteOffset
}

func NewRange(start, end ByteOffset) Range {
	return Range{Start: start, End: end}
}

func (r Range) Len() ByteOffset { return r.End - r.Start }
func (r Range) IsEmpty() bool   { return r.Start == r.End }

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Edit replaces the text in Range with NewText. An empty Range inserts.
type Edit struct {
	Range   Range
	NewText string
}

func NewInsert(offset ByteOffset, text string) Edit {
	return Edit{Range: NewRange(offset, offset), NewText: text}
}

func NewDelete(start, end ByteOffset) Edit {
	return Edit{Range: NewRange(start, end)}
}

// IsInsert reports whether e adds text without removing any.
func (e Edit) IsInsert() bool {
	return e.Range.IsEmpty() && e.NewText != ""
}

// Delta is how much longer the buffer gets by applying e.
func (e Edit) Delta() ByteOffset {
	return ByteOffset(len(e.NewText)) - e.Range.Len()
}

func (e Edit) String() string {
	switch {
	case e.Range.IsEmpty():
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	case e.NewText == "":
		return "Delete" + e.Range.String()
	default:
		return fmt.Sprintf("Replace%s with %q", e.Range, e.NewText)
	}
}
