package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix of environment overrides.
const DefaultEnvPrefix = "SMARTQUOTES_"

// EnvLoader loads configuration from environment variables.
// SMARTQUOTES_DEFAULT_LANGUAGE maps to the "default_language" key.
type EnvLoader struct {
	prefix  string
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "SMARTQUOTES_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix, environ: os.Environ}
}

// NewEnvLoaderFrom creates a loader over a fixed environment, in
// os.Environ's KEY=value form.
func NewEnvLoaderFrom(prefix string, env []string) *EnvLoader {
	return &EnvLoader{prefix: prefix, environ: func() []string { return env }}
}

// Load reads environment variables and returns a configuration map.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, l.prefix))
		if key == "" {
			continue
		}
		config[key] = parseValue(value)
	}
	return NormalizeKeys(config), nil
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	lower := strings.ToLower(s)
	if lower == "true" || lower == "yes" || lower == "on" {
		return true
	}
	if lower == "false" || lower == "no" || lower == "off" {
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		list := make([]any, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				list = append(list, p)
			}
		}
		return list
	}

	return s
}
