package dispatcher

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/dshills/smartquotes/internal/dispatcher/handler"
)

// Router maps action names to handlers. A handler registered for the
// exact name wins over the namespace handler for the name's prefix.
type Router struct {
	mu     sync.RWMutex
	exact  map[string][]handler.Handler
	spaces map[string]handler.NamespaceHandler
}

func NewRouter() *Router {
	return &Router{
		exact:  make(map[string][]handler.Handler),
		spaces: make(map[string]handler.NamespaceHandler),
	}
}

// Register adds h for actionName. Handlers are kept by descending
// priority; among equal priorities the first registered wins.
func (r *Router) Register(actionName string, h handler.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	hs := r.exact[actionName]
	i := slices.IndexFunc(hs, func(o handler.Handler) bool { return o.Priority() < h.Priority() })
	if i < 0 {
		i = len(hs)
	}
	r.exact[actionName] = slices.Insert(hs, i, h)
}

// RegisterNamespace makes h serve every "namespace.*" action it accepts,
// replacing any previous handler for namespace.
func (r *Router) RegisterNamespace(namespace string, h handler.NamespaceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spaces[namespace] = h
}

// Remove drops the exact handlers for name and the namespace handler
// called name.
func (r *Router) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.exact, name)
	delete(r.spaces, name)
}

// Route returns the handler for actionName, or nil.
func (r *Router) Route(actionName string) handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if hs := r.exact[actionName]; len(hs) > 0 {
		return hs[0]
	}
	ns, _, ok := strings.Cut(actionName, ".")
	if !ok {
		return nil
	}
	if h := r.spaces[ns]; h != nil && h.CanHandle(actionName) {
		return handler.ForNamespace(h)
	}
	return nil
}

func (r *Router) CanRoute(actionName string) bool {
	return r.Route(actionName) != nil
}

// Namespaces returns the registered namespaces, sorted.
func (r *Router) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.spaces))
}
