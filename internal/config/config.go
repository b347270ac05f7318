package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/smartquotes/internal/config/loader"
	"github.com/dshills/smartquotes/internal/config/notify"
	"github.com/dshills/smartquotes/internal/config/watcher"
	"github.com/dshills/smartquotes/internal/logging"
)

// Setting names.
const (
	KeyDefaultLanguage      = "default_language"
	KeyUseUCS               = "use_ucs"
	KeyInsertWordSeparators = "insert_word_separators"
	KeyDefaultLocale        = "default_locale"
	KeyAliases              = "aliases"
	KeyScripts              = "scripts"
	KeyLogLevel             = "log_level"
)

// AliasRule maps a babel option pattern to a language identifier.
type AliasRule struct {
	Pattern  string
	Language string
}

// Config provides access to the smartquotes settings.
type Config struct {
	mu sync.RWMutex

	// Values from the file and environment, keyed by setting name.
	values map[string]any

	// Values set programmatically; they survive reloads.
	overrides map[string]any

	path      string
	envPrefix string
	environ   []string
	useEnv    bool

	notifier *notify.Notifier
	watcher  *watcher.Watcher
	logger   *logging.Logger
}

// Option configures a Config instance.
type Option func(*Config)

// WithFile sets the settings file. Its extension selects the format.
func WithFile(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithEnvPrefix sets the environment variable prefix (default SMARTQUOTES_).
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithEnviron uses a fixed environment instead of the process environment.
func WithEnviron(env []string) Option {
	return func(c *Config) {
		c.environ = env
	}
}

// WithoutEnv disables environment overrides.
func WithoutEnv() Option {
	return func(c *Config) {
		c.useEnv = false
	}
}

// WithValues sets initial values that take precedence over the file.
func WithValues(values map[string]any) Option {
	return func(c *Config) {
		for k, v := range loader.NormalizeKeys(values) {
			c.overrides[k] = v
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Config) {
		c.logger = l
	}
}

// New creates a Config and loads its settings.
// A missing settings file is not an error.
func New(opts ...Option) (*Config, error) {
	c := &Config{
		values:    make(map[string]any),
		overrides: make(map[string]any),
		envPrefix: loader.DefaultEnvPrefix,
		useEnv:    true,
		notifier:  notify.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrNop(c.logger).WithComponent("config")

	values, err := c.read()
	if err != nil {
		return nil, err
	}
	c.values = values
	return c, nil
}

// Default returns a Config with no file and no environment overrides.
func Default() *Config {
	c, _ := New(WithoutEnv())
	return c
}

// Path returns the settings file path, or "" when there is none.
func (c *Config) Path() string {
	return c.path
}

// read loads the file and environment layers.
func (c *Config) read() (map[string]any, error) {
	values := make(map[string]any)

	if c.path != "" {
		l, err := loader.ForPath(c.path)
		if err != nil {
			return nil, err
		}
		fileValues, err := l.Load()
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", c.path, err)
		}
		values = loader.Merge(values, loader.NormalizeKeys(fileValues))
	}

	if c.useEnv {
		var env *loader.EnvLoader
		if c.environ != nil {
			env = loader.NewEnvLoaderFrom(c.envPrefix, c.environ)
		} else {
			env = loader.NewEnvLoader(c.envPrefix)
		}
		envValues, err := env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		values = loader.Merge(values, envValues)
	}

	return values, nil
}

// Reload re-reads the settings file and environment and notifies
// observers. On error the previous values are kept.
func (c *Config) Reload() error {
	values, err := c.read()
	if err != nil {
		c.logger.Warn("reload failed: %v", err)
		return err
	}

	c.mu.Lock()
	changed := changedKeys(c.values, values, c.overrides)
	c.values = values
	c.mu.Unlock()

	c.logger.Debug("reloaded %d settings, %d changed", len(values), len(changed))
	c.notifier.Reload(c.path, changed)
	return nil
}

// changedKeys returns the keys whose value differs between old and
// updated, skipping keys masked by an override.
func changedKeys(old, updated, overrides map[string]any) []string {
	var keys []string
	for k, v := range updated {
		if _, masked := overrides[k]; masked {
			continue
		}
		if prev, ok := old[k]; !ok || !reflect.DeepEqual(prev, v) {
			keys = append(keys, k)
		}
	}
	for k := range old {
		if _, masked := overrides[k]; masked {
			continue
		}
		if _, ok := updated[k]; !ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// Get returns the raw value of a setting.
func (c *Config) Get(key string) (any, bool) {
	key = strings.TrimPrefix(key, loader.LegacyPrefix)

	c.mu.RLock()
	defer c.mu.RUnlock()

	if v, ok := c.overrides[key]; ok {
		return v, true
	}
	v, ok := c.values[key]
	return v, ok
}

// Set sets a value for the lifetime of this Config. It is not written
// to the settings file; see SetJSON for that.
func (c *Config) Set(key string, value any) {
	key = strings.TrimPrefix(key, loader.LegacyPrefix)

	c.mu.Lock()
	old, ok := c.overrides[key]
	if !ok {
		old = c.values[key]
	}
	c.overrides[key] = value
	c.mu.Unlock()

	c.notifier.Set(key, old, value)
}

// Keys returns the names of all settings that have a value, sorted.
func (c *Config) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool, len(c.values)+len(c.overrides))
	for k := range c.values {
		seen[k] = true
	}
	for k := range c.overrides {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetString returns a string setting.
func (c *Config) GetString(key string) (string, error) {
	v, ok := c.Get(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSettingNotFound, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Key: key, Expected: "string", Actual: fmt.Sprintf("%T", v)}
	}
	return s, nil
}

// GetBool returns a boolean setting.
func (c *Config) GetBool(key string) (bool, error) {
	v, ok := c.Get(key)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrSettingNotFound, key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Key: key, Expected: "bool", Actual: fmt.Sprintf("%T", v)}
	}
	return b, nil
}

// GetStringSlice returns a list-of-strings setting. A single string is
// returned as a one-element list.
func (c *Config) GetStringSlice(key string) ([]string, error) {
	v, ok := c.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSettingNotFound, key)
	}
	switch list := v.(type) {
	case string:
		return []string{list}, nil
	case []string:
		return append([]string(nil), list...), nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Key: key, Expected: "[]string", Actual: fmt.Sprintf("[]%T", item)}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &TypeError{Key: key, Expected: "[]string", Actual: fmt.Sprintf("%T", v)}
	}
}

func (c *Config) boolOr(key string, def bool) bool {
	b, err := c.GetBool(key)
	if err != nil {
		return def
	}
	return b
}

func (c *Config) stringOr(key, def string) string {
	s, err := c.GetString(key)
	if err != nil || s == "" {
		return def
	}
	return s
}

// DefaultLanguage returns the configured default language, or "".
func (c *Config) DefaultLanguage() string {
	return c.stringOr(KeyDefaultLanguage, "")
}

// UseUCS returns the use_ucs setting, or def when it is unset.
func (c *Config) UseUCS(def bool) bool {
	return c.boolOr(KeyUseUCS, def)
}

// InsertWordSeparators reports whether wide quote glyphs are added to
// the document's word separators.
func (c *Config) InsertWordSeparators() bool {
	return c.boolOr(KeyInsertWordSeparators, false)
}

// DefaultLocale returns the configured BCP 47 locale, or "".
func (c *Config) DefaultLocale() string {
	return c.stringOr(KeyDefaultLocale, "")
}

// LogLevel returns the configured log level name, or "warn".
func (c *Config) LogLevel() string {
	return c.stringOr(KeyLogLevel, "warn")
}

// Scripts returns the configured Lua script paths. Relative paths are
// resolved against the settings file directory.
func (c *Config) Scripts() []string {
	scripts, err := c.GetStringSlice(KeyScripts)
	if err != nil {
		return nil
	}
	if c.path == "" {
		return scripts
	}
	dir := filepath.Dir(c.path)
	for i, s := range scripts {
		if !filepath.IsAbs(s) {
			scripts[i] = filepath.Join(dir, s)
		}
	}
	return scripts
}

// Aliases returns the configured alias rules in order.
//
// The setting is either a list of {pattern, language} tables, which keeps
// its order, or a single pattern → language table, which is ordered by
// pattern.
func (c *Config) Aliases() ([]AliasRule, error) {
	v, ok := c.Get(KeyAliases)
	if !ok {
		return nil, nil
	}

	switch rules := v.(type) {
	case map[string]any:
		patterns := make([]string, 0, len(rules))
		for p := range rules {
			patterns = append(patterns, p)
		}
		sort.Strings(patterns)
		out := make([]AliasRule, 0, len(rules))
		for _, p := range patterns {
			lang, ok := rules[p].(string)
			if !ok || p == "" || lang == "" {
				return nil, fmt.Errorf("%w: %q", ErrInvalidAlias, p)
			}
			out = append(out, AliasRule{Pattern: p, Language: lang})
		}
		return out, nil
	case []any:
		out := make([]AliasRule, 0, len(rules))
		for i, item := range rules {
			rule, ok := aliasFromMap(item)
			if !ok {
				return nil, fmt.Errorf("%w: entry %d", ErrInvalidAlias, i)
			}
			out = append(out, rule)
		}
		return out, nil
	default:
		return nil, &TypeError{Key: KeyAliases, Expected: "table", Actual: fmt.Sprintf("%T", v)}
	}
}

func aliasFromMap(item any) (AliasRule, bool) {
	m, ok := item.(map[string]any)
	if !ok {
		return AliasRule{}, false
	}
	p, _ := m["pattern"].(string)
	lang, _ := m["language"].(string)
	if p == "" || lang == "" {
		return AliasRule{}, false
	}
	return AliasRule{Pattern: p, Language: lang}, true
}

// Subscribe registers an observer for every change.
func (c *Config) Subscribe(observer notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(observer)
}

// SubscribeKey registers an observer for changes to one setting.
func (c *Config) SubscribeKey(key string, observer notify.Observer) *notify.Subscription {
	return c.notifier.SubscribeKey(key, observer)
}

// Watch reloads the configuration whenever the settings file changes.
// Calling Watch more than once is a no-op.
func (c *Config) Watch(opts ...watcher.Option) error {
	if c.path == "" {
		return ErrNoFile
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.watcher != nil {
		return nil
	}

	opts = append([]watcher.Option{
		watcher.WithErrorHandler(func(err error) {
			c.logger.Warn("watch error: %v", err)
		}),
	}, opts...)
	w, err := watcher.New(func(ev watcher.Event) {
		c.logger.Debug("settings file %s: %s", ev.Op, ev.Path)
		_ = c.Reload()
	}, opts...)
	if err != nil {
		return fmt.Errorf("starting config watcher: %w", err)
	}
	if err := w.Watch(c.path); err != nil {
		_ = w.Close()
		return fmt.Errorf("watching %s: %w", c.path, err)
	}
	c.watcher = w
	return nil
}

// Close stops watching the settings file.
func (c *Config) Close() error {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w == nil {
		return nil
	}
	return w.Close()
}
