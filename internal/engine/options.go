package engine

// DefaultMaxUndoEntries is the undo depth unless WithMaxUndoEntries
// says otherwise.
const DefaultMaxUndoEntries = 1000

// Option configures New.
type Option func(*Engine)

// WithContent sets the initial text.
func WithContent(content string) Option {
	return func(e *Engine) { e.content = content }
}

// WithSelections sets the initial selections, clamped to the text.
func WithSelections(sels ...Selection) Option {
	return func(e *Engine) { e.initialSels = append([]Selection(nil), sels...) }
}

// WithMaxUndoEntries bounds the undo history. Values below 1 are ignored.
func WithMaxUndoEntries(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxUndo = n
		}
	}
}
