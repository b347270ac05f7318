package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/smartquotes/internal/logging"
)

// DefaultExecutionTimeout bounds a single DoFile or DoString call.
const DefaultExecutionTimeout = 2 * time.Second

// State is a sandboxed Lua interpreter. Scripts get the base, table,
// string and math libraries only; io, os, debug and package stay closed.
// Calls are serialized because an LState is not goroutine-safe.
type State struct {
	mu     sync.Mutex
	l      *lua.LState
	closed bool

	timeout time.Duration
	logger  *logging.Logger
}

type StateOption func(*State)

// WithExecutionTimeout bounds each DoFile and DoString call. Zero or
// negative leaves only the caller's context.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) { s.timeout = d }
}

// WithLogger receives script output from print.
func WithLogger(l *logging.Logger) StateOption {
	return func(s *State) { s.logger = l }
}

func NewState(opts ...StateOption) *State {
	s := &State{timeout: DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger).WithComponent("lua")

	s.l = lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath} {
		open(s.l)
	}
	installSandbox(s.l, s.logger)
	return s
}

// DoFile runs the script at path.
func (s *State) DoFile(ctx context.Context, path string) error {
	return s.exec(ctx, func(l *lua.LState) error { return l.DoFile(path) })
}

// DoString runs a chunk of Lua source.
func (s *State) DoString(ctx context.Context, src string) error {
	return s.exec(ctx, func(l *lua.LState) error { return l.DoString(src) })
}

// exec runs chunk under the state lock with the execution deadline
// installed. A chunk stopped by the deadline yields ErrExecutionTimeout;
// a Go panic inside a builtin becomes an error.
func (s *State) exec(ctx context.Context, chunk func(*lua.LState) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStateClosed
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.l.SetContext(ctx)
	defer s.l.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua: panic: %v", r)
		}
	}()

	err = chunk(s.l)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
	}
	return err
}

// Global returns the value of a global, or nil after Close.
func (s *State) Global(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return lua.LNil
	}
	return s.l.GetGlobal(name)
}

// SetModule installs funcs as the global table name.
func (s *State) SetModule(name string, funcs map[string]lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.l.SetGlobal(name, s.l.SetFuncs(s.l.NewTable(), funcs))
	}
}

func (s *State) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the interpreter. It is safe to call more than once.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.l.Close()
	}
	return nil
}
