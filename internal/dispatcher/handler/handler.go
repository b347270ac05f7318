// Package handler defines actions, results and the handlers that turn one
// into the other.
package handler

import (
	"errors"

	"github.com/dshills/smartquotes/internal/dispatcher/execctx"
)

var errNilFunc = errors.New("handler: nil function")

// Handler executes actions routed to it by exact name.
type Handler interface {
	Handle(action Action, ctx *execctx.ExecutionContext) Result

	// CanHandle reports whether the action name is served.
	CanHandle(actionName string) bool

	// Priority orders handlers registered for the same name; the highest
	// runs.
	Priority() int
}

// Func adapts a function to Handler with priority 0.
type Func func(action Action, ctx *execctx.ExecutionContext) Result

// Handle calls f.
func (f Func) Handle(action Action, ctx *execctx.ExecutionContext) Result {
	if f == nil {
		return Error(errNilFunc)
	}
	return f(action, ctx)
}

// CanHandle always returns true; the router matches the name.
func (f Func) CanHandle(string) bool { return true }

// Priority returns 0.
func (f Func) Priority() int { return 0 }

// WithPriority wraps fn as a Handler with the given priority.
func WithPriority(fn Func, priority int) Handler {
	return prioritized{Func: fn, prio: priority}
}

type prioritized struct {
	Func
	prio int
}

func (p prioritized) Priority() int { return p.prio }

// NamespaceHandler serves every action under one prefix, such as
// "quotes" for "quotes.insert".
type NamespaceHandler interface {
	HandleAction(action Action, ctx *execctx.ExecutionContext) Result
	CanHandle(actionName string) bool
	Namespace() string
}

// ForNamespace returns h as a Handler.
func ForNamespace(h NamespaceHandler) Handler {
	return namespaced{h}
}

type namespaced struct {
	NamespaceHandler
}

func (n namespaced) Handle(action Action, ctx *execctx.ExecutionContext) Result {
	return n.HandleAction(action, ctx)
}

func (namespaced) Priority() int { return 0 }
