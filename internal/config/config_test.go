package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/smartquotes/internal/config/notify"
	"github.com/dshills/smartquotes/internal/config/watcher"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	c := Default()

	assert.Equal(t, "", c.DefaultLanguage())
	assert.False(t, c.UseUCS(false))
	assert.True(t, c.UseUCS(true))
	assert.False(t, c.InsertWordSeparators())
	assert.Equal(t, "warn", c.LogLevel())
	assert.Nil(t, c.Scripts())

	rules, err := c.Aliases()
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "smartquotes.toml", `
default_language = "german"
use_ucs = true
scripts = ["styles.lua", "/abs/extra.lua"]

[[aliases]]
pattern = "^austrian"
language = "german"

[[aliases]]
pattern = "^swissgerman"
language = "german"
`)

	c, err := New(WithFile(path), WithoutEnv())
	require.NoError(t, err)

	assert.Equal(t, "german", c.DefaultLanguage())
	assert.True(t, c.UseUCS(false))
	assert.Equal(t, []string{filepath.Join(dir, "styles.lua"), "/abs/extra.lua"}, c.Scripts())

	rules, err := c.Aliases()
	require.NoError(t, err)
	assert.Equal(t, []AliasRule{
		{Pattern: "^austrian", Language: "german"},
		{Pattern: "^swissgerman", Language: "german"},
	}, rules)
}

func TestLoadSublimeSettings(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "LaTeXSmartQuotes.sublime-settings", `{
		"latex_smart_quotes_default_language": "french",
		"latex_smart_quotes_insert_word_separators": true,
		"aliases": {"^swiss": "german", "^belgian": "french"}
	}`)

	c, err := New(WithFile(path), WithoutEnv())
	require.NoError(t, err)

	assert.Equal(t, "french", c.DefaultLanguage())
	assert.True(t, c.InsertWordSeparators())

	rules, err := c.Aliases()
	require.NoError(t, err)
	assert.Equal(t, []AliasRule{
		{Pattern: "^belgian", Language: "french"},
		{Pattern: "^swiss", Language: "german"},
	}, rules)
}

func TestMissingFileIsEmpty(t *testing.T) {
	c, err := New(WithFile(filepath.Join(t.TempDir(), "none.yaml")), WithoutEnv())
	require.NoError(t, err)
	assert.Empty(t, c.Keys())
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := New(WithFile("settings.ini"), WithoutEnv())
	require.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "smartquotes.yaml", "default_language: german\nuse_ucs: false\n")

	c, err := New(WithFile(path), WithEnviron([]string{
		"SMARTQUOTES_USE_UCS=yes",
		"OTHER_DEFAULT_LANGUAGE=french",
	}))
	require.NoError(t, err)

	assert.Equal(t, "german", c.DefaultLanguage())
	assert.True(t, c.UseUCS(false))
}

func TestTypeMismatch(t *testing.T) {
	c, err := New(WithoutEnv(), WithValues(map[string]any{"use_ucs": "sometimes"}))
	require.NoError(t, err)

	_, err = c.GetBool(KeyUseUCS)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	var te *TypeError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "bool", te.Expected)

	// Accessors fall back to their defaults.
	assert.True(t, c.UseUCS(true))

	_, err = c.GetString("missing")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestInvalidAliases(t *testing.T) {
	c, err := New(WithoutEnv(), WithValues(map[string]any{
		"aliases": []any{map[string]any{"pattern": "^x"}},
	}))
	require.NoError(t, err)

	_, err = c.Aliases()
	assert.ErrorIs(t, err, ErrInvalidAlias)
}

func TestSetNotifies(t *testing.T) {
	c := Default()

	var got []notify.Change
	c.SubscribeKey(KeyDefaultLanguage, func(ch notify.Change) { got = append(got, ch) })

	c.Set("latex_smart_quotes_default_language", "german")
	c.Set(KeyUseUCS, true)

	assert.Equal(t, "german", c.DefaultLanguage())
	require.Len(t, got, 1)
	assert.Equal(t, "german", got[0].New)
	assert.Nil(t, got[0].Old)
}

func TestReloadKeepsOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "smartquotes.toml", `default_language = "german"`)

	c, err := New(WithFile(path), WithoutEnv())
	require.NoError(t, err)
	c.Set(KeyUseUCS, true)

	reloads := 0
	c.Subscribe(func(ch notify.Change) {
		if ch.Type == notify.ChangeReload {
			reloads++
		}
	})

	writeFile(t, dir, "smartquotes.toml", `default_language = "french"`)
	require.NoError(t, c.Reload())

	assert.Equal(t, "french", c.DefaultLanguage())
	assert.True(t, c.UseUCS(false))
	assert.Equal(t, 1, reloads)
}

func TestReloadReportsChangedKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "smartquotes.toml", "default_language = \"german\"\nuse_ucs = false\nlog_level = \"info\"\n")

	c, err := New(WithFile(path), WithoutEnv())
	require.NoError(t, err)
	c.Set(KeyLogLevel, "debug")

	var all []notify.Change
	c.Subscribe(func(ch notify.Change) { all = append(all, ch) })
	langChanges := 0
	c.SubscribeKey(KeyDefaultLanguage, func(notify.Change) { langChanges++ })

	writeFile(t, dir, "smartquotes.toml", "default_language = \"german\"\nuse_ucs = true\nlog_level = \"warn\"\n")
	require.NoError(t, c.Reload())
	require.NoError(t, c.Reload())

	require.Len(t, all, 2)
	assert.Equal(t, notify.ChangeReload, all[0].Type)
	assert.Equal(t, []string{KeyUseUCS}, all[0].Keys)
	assert.Empty(t, all[1].Keys)
	assert.Equal(t, 0, langChanges)
}

func TestReloadErrorKeepsValues(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "smartquotes.toml", `default_language = "german"`)

	c, err := New(WithFile(path), WithoutEnv())
	require.NoError(t, err)

	writeFile(t, dir, "smartquotes.toml", `default_language = `)
	assert.Error(t, c.Reload())
	assert.Equal(t, "german", c.DefaultLanguage())
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "smartquotes.toml", `default_language = "german"`)

	c, err := New(WithFile(path), WithoutEnv())
	require.NoError(t, err)
	defer c.Close()

	var reloads atomic.Int32
	c.Subscribe(func(notify.Change) { reloads.Add(1) })

	require.NoError(t, c.Watch(watcher.WithDebounce(10*time.Millisecond)))
	require.NoError(t, c.Watch())

	writeFile(t, dir, "smartquotes.toml", `default_language = "french"`)

	assert.Eventually(t, func() bool {
		return c.DefaultLanguage() == "french"
	}, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, reloads.Load(), int32(1))
}

func TestWatchWithoutFile(t *testing.T) {
	assert.ErrorIs(t, Default().Watch(), ErrNoFile)
}
