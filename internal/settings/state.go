package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/dshills/smartquotes/internal/logging"
)

// stateSchemaVersion is bumped whenever statePayload changes shape.
const stateSchemaVersion uint16 = 1

// sessionPrefix marks keys of documents that have no file path.
const sessionPrefix = "untitled:"

type statePayload struct {
	Schema    uint16
	Documents map[string]map[string]any
}

// StateFile persists the settings of many documents in one file.
// Every Set on a document store is written through to disk.
// A StateFile is safe for concurrent use.
type StateFile struct {
	mu     sync.Mutex
	path   string
	docs   map[string]map[string]any
	err    error
	logger *logging.Logger
}

// StateOption configures a StateFile.
type StateOption func(*StateFile)

// WithStateLogger sets the logger.
func WithStateLogger(l *logging.Logger) StateOption {
	return func(s *StateFile) {
		s.logger = l
	}
}

// OpenStateFile reads the state file at path. A missing file yields an
// empty state that is created on the first write.
func OpenStateFile(path string, opts ...StateOption) (*StateFile, error) {
	s := &StateFile{
		path: path,
		docs: make(map[string]map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger).WithComponent("state")

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("opening state file: %w", err)
	}
	defer f.Close()

	var payload statePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptState, path, err)
	}
	if payload.Schema > stateSchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrSchemaVersion, payload.Schema)
	}
	for key, values := range payload.Documents {
		if values != nil {
			s.docs[key] = values
		}
	}
	return s, nil
}

// DefaultStatePath returns the state file location under the user cache
// directory.
func DefaultStatePath() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "smartquotes", "state.mp"), nil
}

// Path returns the state file path.
func (s *StateFile) Path() string {
	return s.path
}

// DocumentKey returns the key under which the document at path is
// stored. Documents without a path get a fresh session key.
func DocumentKey(path string) string {
	if path == "" {
		return SessionKey()
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// SessionKey returns a new key for a document that has no file path.
func SessionKey() string {
	return sessionPrefix + uuid.New().String()
}

// IsSessionKey reports whether key was created by SessionKey.
func IsSessionKey(key string) bool {
	return strings.HasPrefix(key, sessionPrefix)
}

// Document returns the store of the document with the given key.
func (s *StateFile) Document(key string) Store {
	return &documentStore{file: s, key: key}
}

// Documents returns the keys of all persisted documents, sorted.
func (s *StateFile) Documents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.docs))
	for k := range s.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Forget removes a document and saves.
func (s *StateFile) Forget(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[key]; !ok {
		return nil
	}
	delete(s.docs, key)
	return s.saveLocked()
}

// Err returns the last write error, if any.
func (s *StateFile) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Save writes the state to disk.
func (s *StateFile) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *StateFile) saveLocked() error {
	// Session documents live only as long as the process.
	docs := make(map[string]map[string]any, len(s.docs))
	for k, v := range s.docs {
		if !IsSessionKey(k) {
			docs[k] = v
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.err = err
		return fmt.Errorf("saving state: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(s.path), "tmp-*")
	if err != nil {
		s.err = err
		return fmt.Errorf("saving state: %w", err)
	}
	defer os.Remove(f.Name())

	payload := statePayload{Schema: stateSchemaVersion, Documents: docs}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		s.err = err
		return fmt.Errorf("saving state: %w", err)
	}
	if err := f.Close(); err != nil {
		s.err = err
		return fmt.Errorf("saving state: %w", err)
	}
	if err := os.Rename(f.Name(), s.path); err != nil {
		s.err = err
		return fmt.Errorf("saving state: %w", err)
	}
	s.err = nil
	return nil
}

// documentStore is the Store of one document inside a StateFile.
type documentStore struct {
	file *StateFile
	key  string
}

func (d *documentStore) Get(key string) (any, bool) {
	d.file.mu.Lock()
	defer d.file.mu.Unlock()
	v, ok := d.file.docs[d.key][key]
	return v, ok
}

func (d *documentStore) Set(key string, value any) {
	s := d.file
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.docs[d.key]
	if values == nil {
		values = make(map[string]any)
		s.docs[d.key] = values
	}
	values[key] = value

	if IsSessionKey(d.key) {
		return
	}
	if err := s.saveLocked(); err != nil {
		s.logger.WithField("document", d.key).Error("%v", err)
	}
}
