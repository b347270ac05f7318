// Package watcher reports changes to individual files.
//
// Files are watched through their parent directory so that editors which
// save by writing a temporary file and renaming it over the original are
// still observed. Bursts of events for the same file are debounced into a
// single callback.
package watcher

import (
	"errors"
	"maps"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must be quiet before its change is
// reported.
const DefaultDebounce = 100 * time.Millisecond

var ErrClosed = errors.New("watcher: closed")

// Event is a debounced change of one watched file. Op is the union of
// the operations seen while debouncing, such as CREATE|WRITE for an
// atomic save.
type Event struct {
	Path string
	Op   fsnotify.Op
}

type pending struct {
	op    fsnotify.Op
	timer *time.Timer
}

// Watcher calls its handler for changes of the files it watches.
type Watcher struct {
	fsw      *fsnotify.Watcher
	handle   func(Event)
	onError  func(error)
	debounce time.Duration

	mu      sync.Mutex
	files   map[string]struct{}
	dirs    map[string]int
	pending map[string]*pending
	closed  bool

	done chan struct{}
	wg   sync.WaitGroup
}

type Option func(*Watcher)

// WithDebounce sets the quiet period. Zero reports every event at once.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler receives errors reported by fsnotify.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// New starts a watcher that calls handle for every change. handle runs
// on a watcher goroutine without locks held, so it may call Watch and
// Unwatch.
func New(handle func(Event), opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		handle:   handle,
		onError:  func(error) {},
		debounce: DefaultDebounce,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]int),
		pending:  make(map[string]*pending),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Watch adds path. The file need not exist yet, but its directory must.
func (w *Watcher) Watch(path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if _, ok := w.files[path]; ok {
		return nil
	}
	dir := filepath.Dir(path)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[path] = struct{}{}
	return nil
}

// Unwatch removes path and drops a change of it that is still being
// debounced.
func (w *Watcher) Unwatch(path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[path]; !ok {
		return nil
	}
	delete(w.files, path)
	if p := w.pending[path]; p != nil {
		p.timer.Stop()
		delete(w.pending, path)
	}

	dir := filepath.Dir(path)
	if w.dirs[dir]--; w.dirs[dir] > 0 {
		return nil
	}
	delete(w.dirs, dir)
	if w.closed {
		return nil
	}
	return w.fsw.Remove(dir)
}

// Files returns the watched paths, sorted.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Sorted(maps.Keys(w.files))
}

// Close stops the watcher and drops changes still being debounced. A
// handler call already running is not waited for.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, p := range w.pending {
		p.timer.Stop()
	}
	clear(w.pending)
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.record(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) record(ev fsnotify.Event) {
	path, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	if _, ok := w.files[path]; w.closed || !ok {
		w.mu.Unlock()
		return
	}
	if w.debounce == 0 {
		w.mu.Unlock()
		w.handle(Event{Path: path, Op: ev.Op})
		return
	}
	if p := w.pending[path]; p != nil {
		p.op |= ev.Op
		p.timer.Reset(w.debounce)
	} else {
		w.pending[path] = &pending{
			op:    ev.Op,
			timer: time.AfterFunc(w.debounce, func() { w.flush(path) }),
		}
	}
	w.mu.Unlock()
}

func (w *Watcher) flush(path string) {
	w.mu.Lock()
	p := w.pending[path]
	delete(w.pending, path)
	closed := w.closed
	w.mu.Unlock()

	if p != nil && !closed {
		w.handle(Event{Path: path, Op: p.op})
	}
}
