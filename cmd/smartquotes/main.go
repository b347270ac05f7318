// Package main is the entry point for the smartquotes command.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/smartquotes/internal/app"
	"github.com/dshills/smartquotes/internal/picker"
	"github.com/dshills/smartquotes/internal/settings"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		stop()
		os.Exit(1)
	}
}

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath string
	statePath  string
	noState    bool
	logLevel   string
	noColor    bool

	// picker replaces the terminal picker in tests.
	picker picker.Picker

	// environ replaces the process environment in tests.
	environ []string
}

// newRootCmd builds the command tree writing to out and errOut.
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	return newCommand(&globalOptions{}, out, errOut)
}

func newCommand(g *globalOptions, out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "smartquotes",
		Short:         "Language-aware quotation marks for LaTeX documents",
		Long:          "smartquotes detects the babel language and input encoding of LaTeX documents and inserts the matching opening and closing quotes.",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if g.noColor {
				color.NoColor = true
			}
			switch g.logLevel {
			case "", "debug", "info", "warn", "error":
				return nil
			default:
				return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", g.logLevel)
			}
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&g.configPath, "config", "c", "", "settings file (.toml, .yaml, .json or .sublime-settings)")
	flags.StringVar(&g.statePath, "state", "", "per-document state file (default: user cache directory)")
	flags.BoolVar(&g.noState, "no-state", false, "keep document settings in memory only")
	flags.StringVar(&g.logLevel, "log-level", "", "log level: debug|info|warn|error (default: log_level setting)")
	flags.BoolVar(&g.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newDetectCmd(g),
		newLanguagesCmd(g),
		newSetLanguageCmd(g),
		newAutoDetectCmd(g),
		newInsertCmd(g),
		newWatchCmd(g),
		newConfigCmd(g),
	)
	return root
}

var (
	statusColor = color.New(color.FgCyan)
	okColor     = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
)

// openApp starts the application for cmd. Status messages go to the
// command's error stream.
func (g *globalOptions) openApp(cmd *cobra.Command) (*app.Application, error) {
	statePath := g.statePath
	if statePath == "" && !g.noState {
		p, err := settings.DefaultStatePath()
		if err != nil {
			return nil, fmt.Errorf("locating state file: %w", err)
		}
		statePath = p
	}
	if g.noState {
		statePath = ""
	}

	p := g.picker
	if p == nil {
		p = picker.NewScreen()
	}

	errOut := cmd.ErrOrStderr()
	return app.New(cmd.Context(), app.Options{
		ConfigPath: g.configPath,
		StatePath:  statePath,
		LogLevel:   g.logLevel,
		LogOutput:  errOut,
		Environ:    g.environ,
		Picker:     p,
		Status: func(msg string) {
			statusColor.Fprintln(errOut, msg)
		},
	})
}
