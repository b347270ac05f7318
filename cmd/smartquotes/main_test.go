package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/smartquotes/internal/engine"
	"github.com/dshills/smartquotes/internal/engine/cursor"
	"github.com/dshills/smartquotes/internal/picker"
	"github.com/dshills/smartquotes/internal/quotes"
)

const germanChevron = "german-chevron-ucs"

const germanDoc = "\\documentclass{article}\n\\usepackage[utf8]{inputenc}\n\\usepackage[ngerman]{babel}\n\\begin{document}\nHallo Welt\n\\end{document}\n"

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the command tree in-process with document settings kept
// in memory and no environment overrides.
func run(t *testing.T, g *globalOptions, args ...string) result {
	t.Helper()
	return runContext(t, context.Background(), g, args...)
}

func runContext(t *testing.T, ctx context.Context, g *globalOptions, args ...string) result {
	t.Helper()
	if g == nil {
		g = &globalOptions{}
	}
	if g.environ == nil {
		g.environ = []string{}
	}
	if g.picker == nil {
		g.picker = picker.Func(func(string, []picker.Item) (int, error) {
			return -1, picker.ErrCancelled
		})
	}

	var out, errOut bytes.Buffer
	cmd := newCommand(g, &out, &errOut)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.ExecuteContext(ctx)
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	rootDoc := writeFile(t, dir, "main.tex", germanDoc)
	chapter := writeFile(t, dir, "chapters/one.tex", "% !TEX root = ../main.tex\n\\chapter{Eins}\n")
	plain := writeFile(t, dir, "plain.tex", "\\section{Intro}\n")

	res := run(t, nil, "--no-state", "detect", rootDoc)
	require.NoError(t, res.err)
	assert.Equal(t, "german-ucs\n", res.stdout)
	assert.Contains(t, res.stderr, "Language detected: 'german-ucs'")

	res = run(t, nil, "--no-state", "detect", rootDoc, chapter, plain)
	require.NoError(t, res.err)
	assert.Equal(t,
		rootDoc+"\tgerman-ucs\n"+chapter+"\tgerman-ucs\n"+plain+"\tenglish\n",
		res.stdout)

	res = run(t, nil, "--no-state", "detect", "--raw", plain, rootDoc)
	require.NoError(t, res.err)
	assert.Equal(t, plain+"\t-\n"+rootDoc+"\tgerman-ucs\n", res.stdout)
}

func TestDetectMissingFileRaw(t *testing.T) {
	res := run(t, nil, "--no-state", "detect", "--raw", filepath.Join(t.TempDir(), "missing.tex"))
	assert.ErrorIs(t, res.err, os.ErrNotExist)
}

func TestLanguages(t *testing.T) {
	res := run(t, nil, "--no-state", "languages")
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimSuffix(res.stdout, "\n"), "\n")
	require.Len(t, lines, quotes.Default.Len())
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], quotes.None))

	res = run(t, nil, "--no-state", "languages", "--locale", "de-AT")
	require.NoError(t, res.err)
	assert.Equal(t, "german\n", res.stdout)

	res = run(t, &globalOptions{environ: []string{"SMARTQUOTES_USE_UCS=true"}}, "--no-state", "languages", "--locale", "fr-CA")
	require.NoError(t, res.err)
	assert.Equal(t, "french-ucs\n", res.stdout)
}

func TestSetLanguagePersists(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "main.tex", germanDoc)
	state := filepath.Join(dir, "state.mp")

	res := run(t, nil, "--state", state, "set-language", doc, quotes.FrenchUCS)
	require.NoError(t, res.err)
	assert.Equal(t, "french-ucs\n", res.stdout)
	assert.Contains(t, res.stderr, "Quote language set to: french-ucs")
	assert.FileExists(t, state)

	// The stored language is used by insert without re-detection.
	off := strings.Index(germanDoc, "Welt")
	res = run(t, nil, "--state", state, "insert", doc, "--at", itoa(off)+":"+itoa(off+4))
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Hallo «Welt»")

	res = run(t, nil, "--state", state, "set-language", doc, "klingon")
	assert.Error(t, res.err)
}

func TestSetLanguagePicker(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "main.tex", germanDoc)

	var title string
	g := &globalOptions{picker: picker.Func(func(tt string, items []picker.Item) (int, error) {
		title = tt
		for i, it := range items {
			if it.Title == germanChevron {
				return i, nil
			}
		}
		return -1, picker.ErrCancelled
	})}

	res := run(t, g, "--no-state", "set-language", doc)
	require.NoError(t, res.err)
	assert.Equal(t, germanChevron+"\n", res.stdout)
	assert.NotEmpty(t, title)

	res = run(t, nil, "--no-state", "set-language", doc)
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Cancelled")

	res = run(t, nil, "--no-state", "set-language", doc, "--locale", "fr")
	require.NoError(t, res.err)
	assert.Equal(t, "french\n", res.stdout)
}

func TestAutoDetect(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "main.tex", germanDoc)
	state := filepath.Join(dir, "state.mp")

	require.NoError(t, run(t, nil, "--state", state, "set-language", doc, quotes.English).err)

	res := run(t, nil, "--state", state, "auto-detect", doc)
	require.NoError(t, res.err)
	assert.Equal(t, "german-ucs\n", res.stdout)
}

func TestInsert(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "main.tex", germanDoc)
	off := strings.Index(germanDoc, "Welt")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "wrap selection",
			args: []string{"--at", itoa(off) + ":" + itoa(off+4)},
			want: "Hallo „Welt“",
		},
		{
			name: "open at cursor",
			args: []string{"--at", itoa(off), "--mode", "open", "--kind", "single"},
			want: "Hallo ‚Welt",
		},
		{
			name: "two cursors close",
			args: []string{"--at", itoa(off), "--at", itoa(off + 4), "--mode", "close"},
			want: "Hallo “Welt“",
		},
		{
			name: "language override",
			args: []string{"--at", itoa(off) + ":" + itoa(off+4), "--language", quotes.English},
			want: "Hallo ``Welt''",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, nil, append([]string{"--no-state", "insert", doc}, tt.args...)...)
			require.NoError(t, res.err)
			assert.Contains(t, res.stdout, tt.want)
			assert.Contains(t, res.stderr, "Selections:")
		})
	}

	unchanged, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, germanDoc, string(unchanged))
}

func TestInsertWrite(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "main.tex", germanDoc)
	off := strings.Index(germanDoc, "Welt")

	res := run(t, nil, "--no-state", "insert", doc, "--at", itoa(off)+":"+itoa(off+4), "--write")
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)

	written, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Contains(t, string(written), "Hallo „Welt“")
}

func TestInsertErrors(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "main.tex", germanDoc)

	res := run(t, nil, "--no-state", "insert", doc)
	assert.Error(t, res.err, "--at is required")

	res = run(t, nil, "--no-state", "insert", doc, "--at", "x")
	assert.ErrorContains(t, res.err, "invalid offset")

	res = run(t, nil, "--no-state", "insert", doc, "--at", "0", "--kind", "triple")
	assert.ErrorIs(t, res.err, quotes.ErrUnknownKind)

	res = run(t, nil, "--no-state", "insert", doc, "--at", "0", "--language", "klingon")
	assert.Error(t, res.err)
}

func TestParseSelections(t *testing.T) {
	sels, err := parseSelections([]string{"3", "10:4", " 7 : 9 "})
	require.NoError(t, err)
	assert.Equal(t, []engine.Selection{
		cursor.NewCursorSelection(3),
		cursor.NewSelection(10, 4),
		cursor.NewSelection(7, 9),
	}, sels)

	_, err = parseSelections([]string{"-1"})
	assert.Error(t, err)
	_, err = parseSelections([]string{"18446744073709551615"})
	assert.Error(t, err)
}

func TestConfigSetAndGet(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "smartquotes.json")
	g := func() *globalOptions { return &globalOptions{} }

	require.NoError(t, run(t, g(), "-c", cfg, "config", "set", "use_ucs", "false").err)
	require.NoError(t, run(t, g(), "-c", cfg, "config", "set", "default_language", "german").err)

	res := run(t, g(), "-c", cfg, "--no-state", "config", "get", "use_ucs")
	require.NoError(t, res.err)
	assert.Equal(t, "false\n", res.stdout)

	res = run(t, g(), "-c", cfg, "--no-state", "config", "get")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "default_language = \"german\"\n")

	// The new default applies to inconclusive documents.
	plain := writeFile(t, dir, "plain.tex", "\\section{Intro}\n")
	res = run(t, g(), "-c", cfg, "--no-state", "detect", plain)
	require.NoError(t, res.err)
	assert.Equal(t, "german\n", res.stdout)

	require.NoError(t, run(t, g(), "-c", cfg, "config", "unset", "default_language").err)
	res = run(t, g(), "-c", cfg, "--no-state", "config", "get", "default_language")
	assert.Error(t, res.err)
}

func TestConfigSetNeedsJSON(t *testing.T) {
	res := run(t, nil, "config", "set", "use_ucs", "true")
	assert.ErrorContains(t, res.err, "--config")

	res = run(t, nil, "-c", filepath.Join(t.TempDir(), "smartquotes.toml"), "config", "set", "use_ucs", "true")
	assert.ErrorContains(t, res.err, "not a JSON settings file")
}

func TestLuaScripts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "spanish.lua", `
		quotes.define("spanish-ucs", {single = {"‹", "›"}, double = {"«", "»"}, locale = "es"})
		quotes.alias("castellano", "spanish")
	`)
	cfg := writeFile(t, dir, "smartquotes.toml", "scripts = [\"spanish.lua\"]\n")
	doc := writeFile(t, dir, "main.tex", "\\usepackage[utf8]{inputenc}\n\\usepackage[castellano]{babel}\n")

	res := run(t, nil, "-c", cfg, "--no-state", "detect", doc)
	require.NoError(t, res.err)
	assert.Equal(t, "spanish-ucs\n", res.stdout)

	res = run(t, nil, "-c", cfg, "--no-state", "languages", "--locale", "es-MX")
	require.NoError(t, res.err)
	assert.Equal(t, "spanish-ucs\n", res.stdout)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "main.tex", "\\documentclass{article}\n")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	res := runContext(t, ctx, nil, "--no-state", "watch", doc)
	require.NoError(t, res.err)
	assert.Equal(t, "english\n", res.stdout)
}

func TestInvalidLogLevel(t *testing.T) {
	res := run(t, nil, "--log-level", "loud", "languages")
	assert.ErrorContains(t, res.err, "invalid log level")
}

func itoa(n int) string { return strconv.Itoa(n) }
