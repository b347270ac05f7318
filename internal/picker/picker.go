// Package picker shows a list of items and lets the user choose one.
package picker

import (
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"
)

var (
	// ErrCancelled is returned when the user dismisses the list.
	ErrCancelled = errors.New("picker: cancelled")

	// ErrNoItems is returned when there is nothing to choose from.
	ErrNoItems = errors.New("picker: no items")

	// ErrNoTerminal is returned when the terminal cannot be opened.
	ErrNoTerminal = errors.New("picker: no terminal")
)

// Item is one entry of the list.
type Item struct {
	Title  string
	Detail string
}

// Picker asks the user to choose one of items and returns its index.
type Picker interface {
	Pick(title string, items []Item) (int, error)
}

// Func adapts a function to the Picker interface.
type Func func(title string, items []Item) (int, error)

// Pick calls f.
func (f Func) Pick(title string, items []Item) (int, error) {
	return f(title, items)
}

// columnGap separates the title and detail columns.
const columnGap = 2

// Lines renders items as text with the details aligned in one column.
// Widths are measured in terminal cells.
func Lines(items []Item) []string {
	width := 0
	for _, it := range items {
		width = max(width, runewidth.StringWidth(it.Title))
	}

	lines := make([]string, len(items))
	for i, it := range items {
		if it.Detail == "" {
			lines[i] = it.Title
			continue
		}
		lines[i] = runewidth.FillRight(it.Title, width+columnGap) + it.Detail
	}
	return lines
}

// truncate shortens s to at most width cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

func trimFilter(filter string) string {
	if filter == "" {
		return ""
	}
	r := []rune(filter)
	return string(r[:len(r)-1])
}

// itemMatches reports whether the folded filter occurs in the folded
// title or detail.
func itemMatches(folded func(string) string, it Item, filter string) bool {
	if filter == "" {
		return true
	}
	f := folded(filter)
	return strings.Contains(folded(it.Title), f) || strings.Contains(folded(it.Detail), f)
}
