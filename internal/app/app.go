package app

import (
	"context"
	"sync"

	"github.com/dshills/smartquotes/internal/config"
	"github.com/dshills/smartquotes/internal/dispatcher"
	"github.com/dshills/smartquotes/internal/dispatcher/execctx"
	"github.com/dshills/smartquotes/internal/dispatcher/handler"
	"github.com/dshills/smartquotes/internal/language"
	"github.com/dshills/smartquotes/internal/logging"
	"github.com/dshills/smartquotes/internal/plugin/lua"
	"github.com/dshills/smartquotes/internal/quotes"
	"github.com/dshills/smartquotes/internal/quoting"
	"github.com/dshills/smartquotes/internal/settings"
	"github.com/dshills/smartquotes/internal/texroot"
)

// Application owns the configuration, the document state and the
// command dispatcher.
type Application struct {
	opts Options

	logger     *logging.Logger
	config     *config.Config
	state      *settings.StateFile
	table      *quotes.Table
	scripts    *lua.Extensions
	roots      texroot.Resolver
	language   *language.Service
	inserter   *quoting.Inserter
	dispatcher *dispatcher.Dispatcher

	mu        sync.Mutex
	memory    map[string]*settings.MemoryStore
	initOrder []string
	closed    bool
}

// New creates and initializes an Application. ctx bounds script loading.
func New(ctx context.Context, opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := newBootstrapper(app, opts).bootstrap(ctx); err != nil {
		return nil, err
	}
	app.logger.WithComponent("app").Debug("started (%d languages, %d script aliases)",
		app.table.Len(), len(app.scripts.Aliases))
	return app, nil
}

// Logger returns the application logger.
func (a *Application) Logger() *logging.Logger { return a.logger }

// Config returns the configuration.
func (a *Application) Config() *config.Config { return a.config }

// State returns the state file, or nil when settings are kept in memory.
func (a *Application) State() *settings.StateFile { return a.state }

// Table returns the quote table including script definitions.
func (a *Application) Table() *quotes.Table { return a.table }

// Scripts returns what the Lua scripts contributed.
func (a *Application) Scripts() *lua.Extensions { return a.scripts }

// Language returns the language service.
func (a *Application) Language() *language.Service { return a.language }

// Roots returns the root document resolver.
func (a *Application) Roots() texroot.Resolver { return a.roots }

// Dispatcher returns the command dispatcher.
func (a *Application) Dispatcher() *dispatcher.Dispatcher { return a.dispatcher }

// Execute dispatches action against doc. The document's engine is the
// editing surface.
func (a *Application) Execute(action handler.Action, doc *Document) handler.Result {
	if a.isClosed() {
		return handler.Error(ErrClosed)
	}
	ctx := execctx.New().WithDocument(doc).WithSurface(doc.Engine)
	if a.opts.Picker != nil {
		ctx = ctx.WithPicker(a.opts.Picker)
	}
	return a.dispatcher.DispatchWithContext(action, ctx)
}

func (a *Application) isClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

// Close releases every component. It is safe to call more than once.
func (a *Application) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	order := a.initOrder
	a.initOrder = nil
	a.mu.Unlock()

	for i := len(order) - 1; i >= 0; i-- {
		a.closeComponent(order[i])
	}
	return nil
}

func (a *Application) closeComponent(component string) {
	log := logging.OrNop(a.logger).WithComponent("app")
	switch component {
	case "config":
		if err := a.config.Close(); err != nil {
			log.Warn("closing config: %v", err)
		}
	case "state":
		if err := a.state.Err(); err != nil {
			log.Warn("state file: %v", err)
		}
	case "language":
		a.language.Close()
	}
}
