package quoting

import "fmt"

// Mode selects which glyph of a pair is inserted.
type Mode uint8

const (
	// ModeBoth wraps every selection. It is the default.
	ModeBoth Mode = iota
	// ModeOpen inserts the start glyph at every selection begin.
	ModeOpen
	// ModeClose inserts the end glyph at every selection end.
	ModeClose
)

// String returns the mode name as used in command arguments.
func (m Mode) String() string {
	switch m {
	case ModeBoth:
		return "both"
	case ModeOpen:
		return "open"
	case ModeClose:
		return "close"
	default:
		return "unknown"
	}
}

// ParseMode parses "open", "close" or "both". An empty string yields
// ModeBoth.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "both":
		return ModeBoth, nil
	case "open":
		return ModeOpen, nil
	case "close":
		return ModeClose, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}
