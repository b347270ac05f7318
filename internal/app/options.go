package app

import (
	"io"

	"github.com/dshills/smartquotes/internal/language"
	"github.com/dshills/smartquotes/internal/picker"
	"github.com/dshills/smartquotes/internal/texroot"
)

// Options configures an Application. Zero fields select defaults.
type Options struct {
	// ConfigPath is the settings file. Empty means no file.
	ConfigPath string

	// StatePath is the per-document state file. Empty keeps document
	// settings in memory only.
	StatePath string

	// LogLevel overrides the log_level setting.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// Environ replaces the process environment for SMARTQUOTES_*
	// overrides. Nil uses the process environment.
	Environ []string

	// Status receives user-facing status messages.
	Status language.StatusFunc

	// Picker chooses a language when none is given.
	Picker picker.Picker

	// Roots resolves root documents. Defaults to magic comments,
	// followed through chains.
	Roots texroot.Resolver
}
