package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// jsonPath escapes a setting name for use as a gjson/sjson path.
func jsonPath(key string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return r.Replace(key)
}

// GetJSON reads one setting from a JSON settings file.
func GetJSON(path, key string) (any, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, false, fmt.Errorf("reading %s: invalid JSON", path)
	}
	res := gjson.GetBytes(data, jsonPath(key))
	if !res.Exists() {
		return nil, false, nil
	}
	return res.Value(), true, nil
}

// SetJSON writes one setting into a JSON settings file, creating the file
// when it does not exist. Other settings and their formatting are kept.
func SetJSON(path, key string, value any) error {
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		data = []byte("{}\n")
	case err != nil:
		return fmt.Errorf("reading %s: %w", path, err)
	case !gjson.ValidBytes(data):
		return fmt.Errorf("reading %s: invalid JSON", path)
	}

	out, err := sjson.SetBytes(data, jsonPath(key), value)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return writeAtomic(path, out)
}

// DeleteJSON removes one setting from a JSON settings file.
func DeleteJSON(path, key string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	out, err := sjson.DeleteBytes(data, jsonPath(key))
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return writeAtomic(path, out)
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
