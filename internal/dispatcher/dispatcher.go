// Package dispatcher routes named actions to handlers.
//
// A host builds one Dispatcher, registers the handler namespaces and then
// dispatches actions against the document in focus:
//
//	d := dispatcher.New(dispatcher.WithLogger(log))
//	d.RegisterNamespace("quotes", quotes.NewHandler(svc, inserter))
//
//	ctx := execctx.New().WithDocument(doc).WithSurface(eng)
//	res := d.DispatchWithContext(handler.NewAction("quotes.insert"), ctx)
package dispatcher

import (
	"fmt"
	"runtime"

	"github.com/dshills/smartquotes/internal/dispatcher/execctx"
	"github.com/dshills/smartquotes/internal/dispatcher/handler"
	"github.com/dshills/smartquotes/internal/logging"
)

// Dispatcher routes actions to handlers and coordinates execution.
type Dispatcher struct {
	router        *Router
	recoverPanics bool
	logger        *logging.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// WithPanicRecovery sets whether handler panics are turned into error
// results. It is on by default.
func WithPanicRecovery(enabled bool) Option {
	return func(d *Dispatcher) {
		d.recoverPanics = enabled
	}
}

// New creates a dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{router: NewRouter(), recoverPanics: true}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.OrNop(d.logger).WithComponent("dispatcher")
	return d
}

// Router returns the action router.
func (d *Dispatcher) Router() *Router {
	return d.router
}

// RegisterHandler registers a handler for an exact action name.
func (d *Dispatcher) RegisterHandler(actionName string, h handler.Handler) {
	d.router.Register(actionName, h)
}

// RegisterHandlerFunc registers a handler function for an action name.
func (d *Dispatcher) RegisterHandlerFunc(actionName string, fn func(handler.Action, *execctx.ExecutionContext) handler.Result) {
	d.router.Register(actionName, handler.Func(fn))
}

// RegisterNamespace registers a namespace handler.
func (d *Dispatcher) RegisterNamespace(namespace string, h handler.NamespaceHandler) {
	d.router.RegisterNamespace(namespace, h)
}

// Dispatch executes an action with an empty context.
func (d *Dispatcher) Dispatch(action handler.Action) handler.Result {
	return d.DispatchWithContext(action, execctx.New())
}

// DispatchWithContext executes an action synchronously.
func (d *Dispatcher) DispatchWithContext(action handler.Action, ctx *execctx.ExecutionContext) handler.Result {
	if ctx == nil {
		ctx = execctx.New()
	}

	h := d.router.Route(action.Name)
	if h == nil {
		return handler.Error(fmt.Errorf("%w: %s", ErrNoHandler, action.Name))
	}

	var result handler.Result
	if d.recoverPanics {
		result = d.executeWithRecovery(h, action, ctx)
	} else {
		result = h.Handle(action, ctx)
	}

	log := d.logger.WithField("action", action.Name)
	if result.IsError() {
		log.Warn("%v", result.Error)
	} else {
		log.Debug("%s", result.Status)
	}
	return result
}

// executeWithRecovery executes a handler with panic recovery.
func (d *Dispatcher) executeWithRecovery(h handler.Handler, action handler.Action, ctx *execctx.ExecutionContext) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			d.logger.WithField("action", action.Name).Error("panic: %v\n%s", r, stack[:n])
			result = handler.Error(fmt.Errorf("%w: %s: %v", ErrPanic, action.Name, r))
		}
	}()

	return h.Handle(action, ctx)
}
