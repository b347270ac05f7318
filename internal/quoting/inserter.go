package quoting

import (
	"fmt"

	"github.com/dshills/smartquotes/internal/engine/buffer"
	"github.com/dshills/smartquotes/internal/engine/cursor"
	"github.com/dshills/smartquotes/internal/language"
	"github.com/dshills/smartquotes/internal/logging"
	"github.com/dshills/smartquotes/internal/quotes"
)

// Surface is the editing surface quotes are inserted into.
// *engine.Engine satisfies it.
type Surface interface {
	// Selections returns the selections sorted by position.
	Selections() []cursor.Selection

	// SetSelections replaces all selections.
	SetSelections(sels []cursor.Selection)

	// ApplyEdits applies edits sorted by descending offset and moves the
	// selections with them.
	ApplyEdits(edits []buffer.Edit) error

	BeginUndoGroup(name string)
	EndUndoGroup()
}

// Request describes one quote insertion.
type Request struct {
	Kind quotes.Kind
	Mode Mode

	// Language overrides the document language for this call only.
	Language quotes.Language
}

// Result reports what was inserted.
type Result struct {
	Language   quotes.Language
	Pair       quotes.Pair
	Insertions int
}

// undoGroupName names the undo step of one insertion.
const undoGroupName = "insert quotes"

// Inserter inserts quotes for documents whose language is managed by a
// language.Service.
type Inserter struct {
	service *language.Service
	logger  *logging.Logger
}

// Option configures an Inserter.
type Option func(*Inserter)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(i *Inserter) {
		i.logger = l
	}
}

// NewInserter creates an Inserter backed by service.
func NewInserter(service *language.Service, opts ...Option) *Inserter {
	i := &Inserter{service: service}
	for _, opt := range opts {
		opt(i)
	}
	i.logger = logging.OrNop(i.logger).WithComponent("quoting")
	return i
}

// Language returns the language a request would use for doc. An explicit
// request language is never persisted.
func (i *Inserter) Language(doc language.Document, req Request) quotes.Language {
	if req.Language != "" {
		return req.Language
	}
	return i.service.Language(doc)
}

// Insert inserts the quotes described by req at every selection of s.
func (i *Inserter) Insert(s Surface, doc language.Document, req Request) (Result, error) {
	lang := i.Language(doc, req)
	pair, err := i.service.Table().Pair(lang, req.Kind)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidQuote, err)
	}

	sels := s.Selections()
	edits, err := plan(sels, pair, req.Mode)
	if err != nil {
		return Result{}, err
	}

	s.BeginUndoGroup(undoGroupName)
	defer s.EndUndoGroup()

	if err := s.ApplyEdits(edits); err != nil {
		return Result{}, fmt.Errorf("inserting quotes: %w", err)
	}
	if req.Mode == ModeBoth {
		s.SetSelections(wrapped(sels, pair))
	}

	i.logger.WithField("language", lang).Debug("%s %s quotes at %d selections", req.Mode, req.Kind, len(sels))
	return Result{Language: lang, Pair: pair, Insertions: len(edits)}, nil
}

// plan returns the edits for mode in descending offset order. Offsets are
// those of sels before any insertion.
func plan(sels []cursor.Selection, pair quotes.Pair, mode Mode) ([]buffer.Edit, error) {
	edits := make([]buffer.Edit, 0, 2*len(sels))
	for i := len(sels) - 1; i >= 0; i-- {
		sel := sels[i]
		switch mode {
		case ModeOpen:
			edits = append(edits, buffer.NewInsert(sel.Start(), pair.Start))
		case ModeClose:
			edits = append(edits, buffer.NewInsert(sel.End(), pair.End))
		case ModeBoth:
			// At equal offsets a later edit lands in front, so an empty
			// selection gets the close glyph first and the open glyph
			// before it.
			edits = append(edits,
				buffer.NewInsert(sel.End(), pair.End),
				buffer.NewInsert(sel.Start(), pair.Start),
			)
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnknownMode, mode)
		}
	}
	return edits, nil
}

// wrapped returns sels moved to span exactly their original text after
// every selection was wrapped in pair.
func wrapped(sels []cursor.Selection, pair quotes.Pair) []cursor.Selection {
	lo := buffer.ByteOffset(len(pair.Start))
	step := lo + buffer.ByteOffset(len(pair.End))

	out := make([]cursor.Selection, len(sels))
	for i, sel := range sels {
		shift := buffer.ByteOffset(i)*step + lo
		out[i] = sel.WithRange(buffer.Range{Start: sel.Start() + shift, End: sel.End() + shift})
	}
	return out
}
