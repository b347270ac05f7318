package config

import (
	"errors"
	"fmt"
)

var (
	ErrSettingNotFound = errors.New("config: setting not found")
	ErrTypeMismatch    = errors.New("config: wrong value type")

	// ErrNoFile is returned by Watch on a Config without a settings file.
	ErrNoFile = errors.New("config: no settings file")

	// ErrInvalidAlias reports an aliases entry that is neither a
	// {pattern, language} table nor a pattern = language pair.
	ErrInvalidAlias = errors.New("config: invalid alias rule")
)

// TypeError reports a setting whose value has the wrong type, such as
// use_ucs = "yes". It matches ErrTypeMismatch.
type TypeError struct {
	Key      string
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("config: %s must be %s, not %s", e.Key, e.Expected, e.Actual)
}

func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}
