// Package loader reads smartquotes configuration files.
//
// Settings files may be TOML, YAML or JSON (including Sublime Text style
// .sublime-settings files); environment variables with the SMARTQUOTES_
// prefix are layered on top. Every loader returns a flat map keyed by
// setting name, with the legacy "latex_smart_quotes_" prefix removed.
package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LegacyPrefix is the key prefix used by the original editor plugin
// settings file. Keys are accepted with or without it.
const LegacyPrefix = "latex_smart_quotes_"

// Loader is a source of settings. A source that does not exist yields
// nil, nil.
type Loader interface {
	Load() (map[string]any, error)
}

// decodeFunc parses a whole settings file; source names it in errors.
type decodeFunc func(source string, data []byte) (map[string]any, error)

// FileLoader reads one settings file in a fixed format.
type FileLoader struct {
	path   string
	format string
	decode decodeFunc
}

// Format returns "toml", "yaml" or "json".
func (l *FileLoader) Format() string {
	return l.format
}

// Load reads the loader's file.
func (l *FileLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads path in the loader's format.
func (l *FileLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := readFile(path)
	if err != nil || data == nil {
		return nil, err
	}
	return l.decodeNormalized(path, data)
}

// LoadFromReader reads settings from r in the loader's format.
func (l *FileLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return l.decodeNormalized("<reader>", data)
}

func (l *FileLoader) decodeNormalized(source string, data []byte) (map[string]any, error) {
	config, err := l.decode(source, data)
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = make(map[string]any)
	}
	return NormalizeKeys(config), nil
}

// ForPath returns the loader matching the file extension of path.
func ForPath(path string) (*FileLoader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return NewTOMLLoader(path), nil
	case ".yaml", ".yml":
		return NewYAMLLoader(path), nil
	case ".json", ".sublime-settings":
		return NewJSONLoader(path), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// readFile reads path; a missing file yields nil, nil.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return data, nil
}

// NormalizeKeys strips LegacyPrefix from top-level keys.
// When both forms are present the short key wins.
func NormalizeKeys(config map[string]any) map[string]any {
	if config == nil {
		return nil
	}
	out := make(map[string]any, len(config))
	for k, v := range config {
		if short, ok := strings.CutPrefix(k, LegacyPrefix); ok {
			if _, exists := config[short]; exists {
				continue
			}
			out[short] = v
			continue
		}
		out[k] = v
	}
	return out
}

// Merge overlays src onto dst; src wins.
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
