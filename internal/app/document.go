package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/smartquotes/internal/engine"
	"github.com/dshills/smartquotes/internal/settings"
)

// Document is an open file with its editing engine and settings.
type Document struct {
	// Path is the absolute file path, empty for scratch documents.
	Path string

	// Name is the display name.
	Name string

	// Engine holds the text, selections and undo history.
	Engine *engine.Engine

	key   string
	store settings.Store
	mode  os.FileMode
}

// FilePath returns the file of the document, or "".
func (d *Document) FilePath() string {
	return d.Path
}

// Settings returns the per-document settings store.
func (d *Document) Settings() settings.Store {
	return d.store
}

// Key returns the key of the document's settings.
func (d *Document) Key() string {
	return d.key
}

// IsScratch reports whether the document has no file.
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// OpenDocument loads the file at path. A missing file opens empty.
func (a *Application) OpenDocument(path string) (*Document, error) {
	if a.isClosed() {
		return nil, ErrClosed
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	doc := &Document{
		Path: abs,
		Name: filepath.Base(abs),
		key:  settings.DocumentKey(abs),
		mode: 0o644,
	}

	content, err := os.ReadFile(abs)
	switch {
	case err == nil:
		if info, statErr := os.Stat(abs); statErr == nil {
			doc.mode = info.Mode().Perm()
		}
	case errors.Is(err, os.ErrNotExist):
		content = nil
	default:
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	doc.Engine = engine.New(engine.WithContent(string(content)))
	doc.store = a.store(doc.key)
	a.logger.WithField("document", abs).Debug("opened (%d bytes)", len(content))
	return doc, nil
}

// NewScratchDocument creates a document without a file. Its settings
// live only as long as the application.
func (a *Application) NewScratchDocument(content string) *Document {
	key := settings.SessionKey()
	return &Document{
		Name:   "untitled",
		Engine: engine.New(engine.WithContent(content)),
		key:    key,
		store:  a.store(key),
	}
}

// SaveDocument writes the document text back to its file.
func (a *Application) SaveDocument(doc *Document) error {
	if doc.IsScratch() {
		return ErrNoPath
	}
	if err := os.WriteFile(doc.Path, []byte(doc.Engine.Text()), doc.mode); err != nil {
		return fmt.Errorf("saving %s: %w", doc.Path, err)
	}
	a.logger.WithField("document", doc.Path).Debug("saved")
	return nil
}

// store returns the settings store of the document with key.
func (a *Application) store(key string) settings.Store {
	if a.state != nil {
		return a.state.Document(key)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.memory[key]
	if !ok {
		s = settings.NewMemoryStore()
		a.memory[key] = s
	}
	return s
}
