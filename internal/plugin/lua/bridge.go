package lua

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/smartquotes/internal/detect"
	"github.com/dshills/smartquotes/internal/quotes"
)

// ModuleName is the global under which the quotes API is installed.
const ModuleName = "quotes"

// Bridge exposes a quote table to Lua scripts and collects the alias
// rules they declare.
type Bridge struct {
	table *quotes.Table

	mu      sync.Mutex
	aliases []detect.Alias
	defined []quotes.Language
}

// NewBridge creates a Bridge that defines styles in table.
func NewBridge(table *quotes.Table) *Bridge {
	return &Bridge{table: table}
}

// Install registers the quotes module in s.
func (b *Bridge) Install(s *State) {
	s.SetModule(ModuleName, map[string]lua.LGFunction{
		"define":    b.define,
		"alias":     b.alias,
		"has":       b.has,
		"languages": b.languages,
	})
}

// Aliases returns the alias rules declared so far, in declaration order.
func (b *Bridge) Aliases() []detect.Alias {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]detect.Alias(nil), b.aliases...)
}

// Defined returns the languages defined so far, in definition order.
func (b *Bridge) Defined() []quotes.Language {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]quotes.Language(nil), b.defined...)
}

// define(name, {single = pair, double = pair, locale = tag})
func (b *Bridge) define(L *lua.LState) int {
	name := L.CheckString(1)
	tbl := L.CheckTable(2)

	style, err := styleFromTable(L, tbl)
	if err != nil {
		L.RaiseError("quotes.define(%q): %v", name, err)
		return 0
	}
	if err := b.table.Define(name, style); err != nil {
		L.RaiseError("quotes.define(%q): %v", name, err)
		return 0
	}

	b.mu.Lock()
	b.defined = append(b.defined, name)
	b.mu.Unlock()
	return 0
}

// alias(pattern, language)
func (b *Bridge) alias(L *lua.LState) int {
	pattern := L.CheckString(1)
	lang := L.CheckString(2)

	a, err := detect.NewAlias(pattern, lang)
	if err != nil {
		L.RaiseError("quotes.alias: %v", err)
		return 0
	}

	b.mu.Lock()
	b.aliases = append(b.aliases, a)
	b.mu.Unlock()
	return 0
}

// has(name) -> bool
func (b *Bridge) has(L *lua.LState) int {
	L.Push(lua.LBool(b.table.Has(L.CheckString(1))))
	return 1
}

// languages() -> {name, ...}
func (b *Bridge) languages(L *lua.LState) int {
	out := L.NewTable()
	for _, lang := range b.table.Languages() {
		out.Append(lua.LString(lang))
	}
	L.Push(out)
	return 1
}

func styleFromTable(L *lua.LState, t *lua.LTable) (quotes.Style, error) {
	single, err := pairFromValue(L, L.GetField(t, "single"))
	if err != nil {
		return quotes.Style{}, fmt.Errorf("single: %w", err)
	}
	double, err := pairFromValue(L, L.GetField(t, "double"))
	if err != nil {
		return quotes.Style{}, fmt.Errorf("double: %w", err)
	}

	style := quotes.Style{Single: single, Double: double}
	switch locale := L.GetField(t, "locale").(type) {
	case lua.LString:
		style.Locale = string(locale)
	case *lua.LNilType:
	default:
		return quotes.Style{}, fmt.Errorf("%w: locale must be a string, got %s", ErrInvalidStyle, locale.Type())
	}
	return style, nil
}

// pairFromValue accepts {"open", "close"} or {open = ..., close = ...}.
func pairFromValue(L *lua.LState, v lua.LValue) (quotes.Pair, error) {
	t, ok := v.(*lua.LTable)
	if !ok {
		return quotes.Pair{}, fmt.Errorf("%w: expected a table, got %s", ErrInvalidStyle, v.Type())
	}

	first, second := t.RawGetInt(1), t.RawGetInt(2)
	if first == lua.LNil && second == lua.LNil {
		first, second = L.GetField(t, "open"), L.GetField(t, "close")
	}

	start, ok1 := first.(lua.LString)
	end, ok2 := second.(lua.LString)
	if !ok1 || !ok2 || start == "" || end == "" {
		return quotes.Pair{}, fmt.Errorf("%w: a pair needs two non-empty strings", ErrInvalidStyle)
	}
	return quotes.Pair{Start: string(start), End: string(end)}, nil
}
