package buffer

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrEditsOverlap     = errors.New("edits overlap or are not in reverse order")
)

// Buffer is the text of a document.
type Buffer struct {
	mu   sync.RWMutex
	text string
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func NewBufferFromString(s string) *Buffer {
	return &Buffer{text: s}
}

func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// TextRange returns the text in [start, end), clamping both bounds.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := ByteOffset(len(b.text))
	start = min(max(start, 0), n)
	end = min(max(end, start), n)
	return b.text[start:end]
}

func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(len(b.text))
}

// Insert inserts text at offset and returns the offset after it.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	return b.Replace(offset, offset, text)
}

func (b *Buffer) Delete(start, end ByteOffset) error {
	_, err := b.Replace(start, end, "")
	return err
}

// Replace replaces [start, end) with text and returns the offset after
// the new text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	if err := b.ApplyEdits([]Edit{{Range: NewRange(start, end), NewText: text}}); err != nil {
		return 0, err
	}
	return start + ByteOffset(len(text)), nil
}

// ApplyEdits applies edits sorted by descending offset, each against the
// text the previous one left. Nothing is applied unless every edit is
// valid.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := ByteOffset(len(b.text))
	for i, e := range edits {
		if e.Range.Start < 0 || e.Range.End < e.Range.Start || e.Range.End > n {
			return fmt.Errorf("%w: %s in %d bytes", ErrOffsetOutOfRange, e.Range, n)
		}
		if i > 0 && e.Range.End > edits[i-1].Range.Start {
			return ErrEditsOverlap
		}
	}

	for _, e := range edits {
		b.text = b.text[:e.Range.Start] + e.NewText + b.text[e.Range.End:]
	}
	return nil
}
