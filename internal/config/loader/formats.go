package loader

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// NewTOMLLoader returns a loader for a TOML settings file.
func NewTOMLLoader(path string) *FileLoader {
	return &FileLoader{path: path, format: "toml", decode: decodeTOML}
}

// NewYAMLLoader returns a loader for a YAML settings file.
func NewYAMLLoader(path string) *FileLoader {
	return &FileLoader{path: path, format: "yaml", decode: decodeYAML}
}

// NewJSONLoader returns a loader for a JSON or .sublime-settings file.
// Only the top-level object is read; values keep their JSON types.
func NewJSONLoader(path string) *FileLoader {
	return &FileLoader{path: path, format: "json", decode: decodeJSON}
}

func decodeTOML(source string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := toml.Unmarshal(data, &config); err != nil {
		pe := &ParseError{Path: source, Err: err}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			pe.Line, pe.Column = decodeErr.Position()
		}
		return nil, pe
	}
	return config, nil
}

func decodeYAML(source string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &ParseError{Path: source, Line: yamlErrorLine(err.Error()), Err: err}
	}
	return config, nil
}

func decodeJSON(source string, data []byte) (map[string]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Err: errInvalidJSON}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &ParseError{Path: source, Err: errNotObject}
	}

	config := make(map[string]any)
	root.ForEach(func(key, value gjson.Result) bool {
		config[key.String()] = value.Value()
		return true
	})
	return config, nil
}

// yamlErrorLine extracts N from yaml's "yaml: line N: ..." messages.
func yamlErrorLine(msg string) int {
	var line int
	if _, err := fmt.Sscanf(msg, "yaml: line %d:", &line); err != nil {
		return 0
	}
	return line
}
