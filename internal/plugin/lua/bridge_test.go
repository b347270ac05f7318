package lua

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/dshills/smartquotes/internal/detect"
	"github.com/dshills/smartquotes/internal/quotes"
)

func newBridgeState(t *testing.T) (*State, *Bridge, *quotes.Table) {
	t.Helper()
	table := quotes.Default.Clone()
	s := NewState()
	t.Cleanup(func() { s.Close() })
	b := NewBridge(table)
	b.Install(s)
	return s, b, table
}

func writeScript(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBridgeDefine(t *testing.T) {
	s, b, table := newBridgeState(t)

	err := s.DoString(context.Background(), `
		quotes.define("spanish-ucs", {
			single = {"‹", "›"},
			double = {open = "«", close = "»"},
			locale = "es",
		})
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	style, ok := table.Lookup("spanish-ucs")
	if !ok {
		t.Fatal("spanish-ucs was not defined")
	}
	want := quotes.Style{
		Single: quotes.Pair{Start: "‹", End: "›"},
		Double: quotes.Pair{Start: "«", End: "»"},
		Locale: "es",
	}
	if style != want {
		t.Errorf("style = %+v, want %+v", style, want)
	}
	if got := b.Defined(); len(got) != 1 || got[0] != "spanish-ucs" {
		t.Errorf("Defined() = %v", got)
	}
	if quotes.Default.Has("spanish-ucs") {
		t.Error("the default table was modified")
	}
}

func TestBridgeDefineRejectsMalformedStyles(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing double", `quotes.define("x", {single = {"a", "b"}})`},
		{"empty glyph", `quotes.define("x", {single = {"", "b"}, double = {"c", "d"}})`},
		{"one glyph", `quotes.define("x", {single = {"a"}, double = {"c", "d"}})`},
		{"numbers", `quotes.define("x", {single = {1, 2}, double = {"c", "d"}})`},
		{"bad locale", `quotes.define("x", {single = {"a", "b"}, double = {"c", "d"}, locale = 1})`},
		{"empty name", `quotes.define("", {single = {"a", "b"}, double = {"c", "d"}})`},
		{"no table", `quotes.define("x")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, b, table := newBridgeState(t)
			n := table.Len()

			if err := s.DoString(context.Background(), tt.src); err == nil {
				t.Fatal("DoString() expected error")
			}
			if table.Len() != n {
				t.Errorf("table grew from %d to %d", n, table.Len())
			}
			if len(b.Defined()) != 0 {
				t.Errorf("Defined() = %v", b.Defined())
			}
		})
	}
}

func TestBridgeDefineErrorIsCatchable(t *testing.T) {
	s, _, _ := newBridgeState(t)

	err := s.DoString(context.Background(), `
		ok = pcall(quotes.define, "x", {single = {"a"}})
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if v := s.Global("ok").String(); v != "false" {
		t.Errorf("ok = %s, want false", v)
	}
}

func TestBridgeAlias(t *testing.T) {
	s, b, _ := newBridgeState(t)

	if err := s.DoString(context.Background(), `quotes.alias("castellano", "spanish")`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	aliases := b.Aliases()
	if len(aliases) != 1 {
		t.Fatalf("Aliases() = %v", aliases)
	}
	if got := detect.Normalize("castellano", aliases); got != "spanish" {
		t.Errorf("Normalize() = %q, want spanish", got)
	}

	if err := s.DoString(context.Background(), `quotes.alias("(", "spanish")`); err == nil {
		t.Error("invalid pattern should fail")
	}
	if len(b.Aliases()) != 1 {
		t.Errorf("a rejected alias was recorded")
	}
}

func TestBridgeQueries(t *testing.T) {
	s, _, table := newBridgeState(t)

	err := s.DoString(context.Background(), `
		has_german = quotes.has("german")
		has_klingon = quotes.has("klingon")
		count = #quotes.languages()
		first = quotes.languages()[1]
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	if s.Global("has_german").String() != "true" {
		t.Error("has(german) = false")
	}
	if s.Global("has_klingon").String() != "false" {
		t.Error("has(klingon) = true")
	}
	if got, want := s.Global("count").String(), strconv.Itoa(table.Len()); got != want {
		t.Errorf("count = %s, want %s", got, want)
	}
	if got := s.Global("first").String(); got != table.Languages()[0] {
		t.Errorf("first = %s, want %s", got, table.Languages()[0])
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	styles := writeScript(t, dir, "styles.lua", `
		quotes.define("spanish", {single = {"<", ">"}, double = {"<<", ">>"}, locale = "es"})
		quotes.define("spanish-ucs", {single = {"‹", "›"}, double = {"«", "»"}, locale = "es"})
	`)
	broken := writeScript(t, dir, "broken.lua", `
		quotes.alias("swiss", "german")
		error("boom")
	`)
	aliases := writeScript(t, dir, "aliases.lua", `quotes.alias("castellano", "spanish")`)

	table := quotes.Default.Clone()
	ext, err := Load(context.Background(), table, []string{styles, broken, aliases, filepath.Join(dir, "missing.lua")})
	if err == nil {
		t.Fatal("Load() expected an error")
	}
	if !strings.Contains(err.Error(), "broken.lua") || !strings.Contains(err.Error(), "missing.lua") {
		t.Errorf("error does not name the failing scripts: %v", err)
	}

	if !table.Has("spanish") || !table.Has("spanish-ucs") {
		t.Error("styles were not defined")
	}
	if len(ext.Languages) != 2 {
		t.Errorf("Languages = %v", ext.Languages)
	}

	// Definitions before the failure in broken.lua are kept.
	if len(ext.Aliases) != 2 {
		t.Fatalf("Aliases = %v", ext.Aliases)
	}
	if got := detect.Normalize("swissgerman", ext.Aliases); got != quotes.German {
		t.Errorf("Normalize(swissgerman) = %q", got)
	}
	if got := detect.Normalize("castellano", ext.Aliases); got != "spanish" {
		t.Errorf("Normalize(castellano) = %q", got)
	}
}

func TestLoadAliasesFeedDetection(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "swiss.lua", `quotes.alias("swiss", "german")`)

	ext, err := Load(context.Background(), quotes.Default.Clone(), []string{script})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	d := detect.New(detect.WithExtraAliases(ext.Aliases...))
	lang, ok, err := d.Detect(strings.NewReader("\\usepackage[swissgerman]{babel}\n"))
	if err != nil || !ok {
		t.Fatalf("Detect() = %q, %t, %v", lang, ok, err)
	}
	if lang != quotes.German {
		t.Errorf("Detect() = %q, want german", lang)
	}
}

func TestLoadNothing(t *testing.T) {
	ext, err := Load(context.Background(), quotes.Default.Clone(), nil)
	if err != nil || ext == nil {
		t.Fatalf("Load(nil) = %v, %v", ext, err)
	}
}

func TestLoadCancelled(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "a.lua", `quotes.alias("a", "english")`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ext, err := Load(ctx, quotes.Default.Clone(), []string{script})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
	if len(ext.Aliases) != 0 {
		t.Errorf("Aliases = %v", ext.Aliases)
	}
}
