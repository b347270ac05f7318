package app

import (
	"context"

	"github.com/dshills/smartquotes/internal/config"
	"github.com/dshills/smartquotes/internal/dispatcher"
	quotescmd "github.com/dshills/smartquotes/internal/dispatcher/handlers/quotes"
	"github.com/dshills/smartquotes/internal/language"
	"github.com/dshills/smartquotes/internal/logging"
	"github.com/dshills/smartquotes/internal/plugin/lua"
	"github.com/dshills/smartquotes/internal/quotes"
	"github.com/dshills/smartquotes/internal/quoting"
	"github.com/dshills/smartquotes/internal/settings"
	"github.com/dshills/smartquotes/internal/texroot"
)

// bootstrapper initializes components in dependency order and releases
// the started ones when a later step fails.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{app: app, opts: opts}
}

func (b *bootstrapper) bootstrap(ctx context.Context) error {
	steps := []func(context.Context) error{
		b.initConfig,
		b.initLogger,
		b.initState,
		b.initScripts,
		b.initLanguage,
		b.initDispatcher,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			b.cleanup()
			return err
		}
	}
	b.app.initOrder = b.initOrder
	return nil
}

func (b *bootstrapper) initConfig(context.Context) error {
	opts := []config.Option{config.WithEnviron(b.opts.Environ)}
	if b.opts.ConfigPath != "" {
		opts = append(opts, config.WithFile(b.opts.ConfigPath))
	}
	cfg, err := config.New(opts...)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	b.app.config = cfg
	b.initOrder = append(b.initOrder, "config")
	return nil
}

// initLogger runs after the configuration so log_level can apply.
func (b *bootstrapper) initLogger(context.Context) error {
	level := b.opts.LogLevel
	if level == "" {
		level = b.app.config.LogLevel()
	}
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(level)
	if b.opts.LogOutput != nil {
		cfg.Output = b.opts.LogOutput
	}
	b.app.logger = logging.New(cfg)
	return nil
}

func (b *bootstrapper) initState(context.Context) error {
	if b.opts.StatePath == "" {
		b.app.memory = make(map[string]*settings.MemoryStore)
		return nil
	}
	state, err := settings.OpenStateFile(b.opts.StatePath, settings.WithStateLogger(b.app.logger))
	if err != nil {
		return &InitError{Component: "state", Err: err}
	}
	b.app.state = state
	b.initOrder = append(b.initOrder, "state")
	return nil
}

// initScripts loads the Lua scripts. A broken script is logged, not
// fatal.
func (b *bootstrapper) initScripts(ctx context.Context) error {
	b.app.table = quotes.Default.Clone()

	ext, err := lua.Load(ctx, b.app.table, b.app.config.Scripts(), lua.WithLogger(b.app.logger))
	if err != nil {
		b.app.logger.Warn("scripts: %v", err)
	}
	b.app.scripts = ext
	return nil
}

func (b *bootstrapper) initLanguage(context.Context) error {
	roots := b.opts.Roots
	if roots == nil {
		roots = texroot.New(texroot.WithFollow(), texroot.WithLogger(b.app.logger))
	}
	b.app.roots = roots
	b.app.language = language.NewService(language.Options{
		Table:   b.app.table,
		Config:  b.app.config,
		Roots:   roots,
		Status:  b.opts.Status,
		Logger:  b.app.logger,
		Aliases: b.app.scripts.Aliases,
	})
	b.app.inserter = quoting.NewInserter(b.app.language, quoting.WithLogger(b.app.logger))
	b.initOrder = append(b.initOrder, "language")
	return nil
}

func (b *bootstrapper) initDispatcher(context.Context) error {
	d := dispatcher.New(
		dispatcher.WithLogger(b.app.logger),
		dispatcher.WithPanicRecovery(true),
	)
	d.RegisterNamespace("quotes", quotescmd.NewHandler(b.app.language, b.app.inserter))
	b.app.dispatcher = d
	return nil
}

// cleanup releases started components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.app.closeComponent(b.initOrder[i])
	}
	b.initOrder = nil
}
