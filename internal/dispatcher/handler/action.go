package handler

import (
	"fmt"
	"strings"
)

// Action is a named command with its arguments.
type Action struct {
	// Name is the command identifier (e.g., "quotes.insert").
	Name string

	// Args contains command-specific arguments.
	Args map[string]any
}

// NewAction creates an action. Args are given as alternating keys and
// values.
func NewAction(name string, kv ...any) Action {
	a := Action{Name: name}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		a = a.WithArg(key, kv[i+1])
	}
	return a
}

// WithArg returns a copy of the action with an argument set.
func (a Action) WithArg(key string, value any) Action {
	args := make(map[string]any, len(a.Args)+1)
	for k, v := range a.Args {
		args[k] = v
	}
	args[key] = value
	a.Args = args
	return a
}

// String returns a string argument. Missing arguments yield "".
func (a Action) String(key string) (string, error) {
	v, ok := a.Args[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %s: expected string, got %T", key, v)
	}
	return strings.TrimSpace(s), nil
}

// Namespace returns the prefix before the first dot of the name.
func (a Action) Namespace() string {
	ns, _, found := strings.Cut(a.Name, ".")
	if !found {
		return ""
	}
	return ns
}
