package picker

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
)

// Screen is a full-screen terminal picker. Typing filters the list,
// arrow keys move the selection, Enter chooses and Escape cancels.
type Screen struct {
	screen tcell.Screen

	normal   tcell.Style
	selected tcell.Style
	prompt   tcell.Style
}

// Option configures a Screen.
type Option func(*Screen)

// WithScreen draws on an initialized screen instead of opening the
// terminal. The screen is not finalized when Pick returns.
func WithScreen(s tcell.Screen) Option {
	return func(p *Screen) {
		p.screen = s
	}
}

// NewScreen creates a terminal picker.
func NewScreen(opts ...Option) *Screen {
	p := &Screen{
		normal:   tcell.StyleDefault,
		selected: tcell.StyleDefault.Reverse(true),
		prompt:   tcell.StyleDefault.Bold(true),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Pick shows items until the user chooses one.
func (p *Screen) Pick(title string, items []Item) (int, error) {
	if len(items) == 0 {
		return -1, ErrNoItems
	}

	s := p.screen
	if s == nil {
		var err error
		s, err = tcell.NewScreen()
		if err != nil {
			return -1, fmt.Errorf("%w: %v", ErrNoTerminal, err)
		}
		if err := s.Init(); err != nil {
			return -1, fmt.Errorf("%w: %v", ErrNoTerminal, err)
		}
		defer s.Fini()
	}

	st := newState(items)
	for {
		p.draw(s, title, st)
		switch ev := s.PollEvent().(type) {
		case nil:
			return -1, ErrCancelled
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventKey:
			if idx, done, err := st.handleKey(ev); done {
				return idx, err
			}
		}
	}
}

func (p *Screen) draw(s tcell.Screen, title string, st *state) {
	s.Clear()
	w, h := s.Size()

	header := title + ": " + st.filter
	drawText(s, 0, 0, truncate(header, w), p.prompt)
	s.ShowCursor(min(runewidth.StringWidth(header), w-1), 0)

	rows := h - 1
	st.scroll(rows)
	for row := 0; row < rows && st.top+row < len(st.visible); row++ {
		i := st.top + row
		style := p.normal
		if i == st.cursor {
			style = p.selected
		}
		drawText(s, 0, row+1, truncate(st.lines[st.visible[i]], w), style)
	}
	s.Show()
}

// drawText writes text starting at column x, advancing by cell width.
func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

// state is the filter and selection of one Pick call.
type state struct {
	items   []Item
	lines   []string
	filter  string
	visible []int
	cursor  int
	top     int
	fold    cases.Caser
}

func newState(items []Item) *state {
	st := &state{items: items, lines: Lines(items), fold: cases.Fold()}
	st.refilter()
	return st
}

func (st *state) folded(s string) string {
	return st.fold.String(s)
}

func (st *state) refilter() {
	st.visible = st.visible[:0]
	for i, it := range st.items {
		if itemMatches(st.folded, it, st.filter) {
			st.visible = append(st.visible, i)
		}
	}
	st.cursor = 0
	st.top = 0
}

// scroll keeps the cursor inside a window of rows lines.
func (st *state) scroll(rows int) {
	if rows <= 0 {
		return
	}
	if st.cursor < st.top {
		st.top = st.cursor
	}
	if st.cursor >= st.top+rows {
		st.top = st.cursor - rows + 1
	}
}

// handleKey applies a key press. done is true when Pick should return.
func (st *state) handleKey(ev *tcell.EventKey) (idx int, done bool, err error) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return -1, true, ErrCancelled
	case tcell.KeyEnter:
		if len(st.visible) == 0 {
			return -1, false, nil
		}
		return st.visible[st.cursor], true, nil
	case tcell.KeyUp, tcell.KeyCtrlP:
		if st.cursor > 0 {
			st.cursor--
		}
	case tcell.KeyDown, tcell.KeyCtrlN:
		if st.cursor < len(st.visible)-1 {
			st.cursor++
		}
	case tcell.KeyHome:
		st.cursor = 0
	case tcell.KeyEnd:
		st.cursor = max(len(st.visible)-1, 0)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		st.filter = trimFilter(st.filter)
		st.refilter()
	case tcell.KeyRune:
		st.filter += string(ev.Rune())
		st.refilter()
	}
	return -1, false, nil
}
