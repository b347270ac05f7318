package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dshills/smartquotes/internal/config/watcher"
	"github.com/dshills/smartquotes/internal/quotes"
)

// Watch resolves the language of doc now and again whenever the
// document, its root document or the settings file changes, until ctx
// is done. A change of the magic comment moves the watch to the new
// root.
func (a *Application) Watch(ctx context.Context, doc *Document, onChange func(quotes.Language), opts ...watcher.Option) error {
	if doc.IsScratch() {
		return ErrNoPath
	}
	log := a.logger.WithComponent("watch").WithField("document", doc.Path)

	configPath := absOrEmpty(a.config.Path())

	// The channel holds at most one pending resolve; more changes
	// while it is full collapse into it.
	changed := make(chan struct{}, 1)
	opts = append([]watcher.Option{
		watcher.WithErrorHandler(func(err error) {
			log.Warn("%v", err)
		}),
	}, opts...)
	w, err := watcher.New(func(ev watcher.Event) {
		log.Debug("%s %s", ev.Op, ev.Path)
		if ev.Path == configPath {
			_ = a.config.Reload()
		}
		select {
		case changed <- struct{}{}:
		default:
		}
	}, opts...)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	if err := w.Watch(doc.Path); err != nil {
		return fmt.Errorf("watching %s: %w", doc.Path, err)
	}
	if configPath != "" {
		if err := w.Watch(configPath); err != nil {
			return fmt.Errorf("watching %s: %w", configPath, err)
		}
	}

	root := ""
	rewatchRoot := func() {
		next, ok := a.roots.Root(doc.Path)
		if !ok {
			next = ""
		}
		next = absOrEmpty(next)
		if next == doc.Path {
			next = ""
		}
		if next == root {
			return
		}
		if root != "" {
			_ = w.Unwatch(root)
		}
		root = ""
		if next != "" {
			if err := w.Watch(next); err != nil {
				log.Warn("watching root %s: %v", next, err)
				return
			}
			log.Debug("root is %s", next)
		}
		root = next
	}

	rewatchRoot()
	onChange(a.language.Resolve(doc))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			rewatchRoot()
			onChange(a.language.Resolve(doc))
		}
	}
}

func absOrEmpty(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
