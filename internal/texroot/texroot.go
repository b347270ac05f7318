// Package texroot finds the root document of a multi-file LaTeX project.
//
// A sub-file names its root with a magic comment in its leading comment
// block:
//
//	% !TEX root = ../thesis.tex
//
// The path is relative to the sub-file's directory.
package texroot

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dshills/smartquotes/internal/logging"
)

// maxChain bounds how many magic comments are followed.
const maxChain = 8

var magicRoot = regexp.MustCompile(`(?i)^%\s*!TEX\s+root\s*=\s*(.*tex)\s*$`)

// Resolver returns the root document of the file at path.
type Resolver interface {
	Root(path string) (string, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(path string) (string, bool)

// Root calls f.
func (f ResolverFunc) Root(path string) (string, bool) {
	return f(path)
}

// None is a Resolver that never finds a root.
var None = ResolverFunc(func(string) (string, bool) { return "", false })

// MagicComment resolves roots from "% !TEX root" comments.
type MagicComment struct {
	follow bool
	logger *logging.Logger
}

// Option configures a MagicComment resolver.
type Option func(*MagicComment)

// WithFollow follows chains of magic comments (a sub-file naming another
// sub-file) until a file without one is reached.
func WithFollow() Option {
	return func(m *MagicComment) {
		m.follow = true
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *MagicComment) {
		m.logger = l
	}
}

// New creates a MagicComment resolver.
func New(opts ...Option) *MagicComment {
	m := &MagicComment{}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.OrNop(m.logger).WithComponent("texroot")
	return m
}

// Root returns the root named by the magic comment of path. Unreadable
// files have no root.
func (m *MagicComment) Root(path string) (string, bool) {
	root, ok := rootOf(path)
	if !ok || !m.follow {
		return root, ok
	}

	seen := map[string]bool{filepath.Clean(path): true}
	for i := 0; i < maxChain; i++ {
		if seen[root] {
			m.logger.Warn("magic comment cycle at %s", root)
			return root, true
		}
		seen[root] = true
		next, ok := rootOf(root)
		if !ok {
			break
		}
		root = next
	}
	return root, true
}

// rootOf reads the leading comment block of path.
func rootOf(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if !strings.HasPrefix(line, "%") {
			break
		}
		if m := magicRoot.FindStringSubmatch(line); m != nil {
			root := strings.TrimSpace(m[1])
			if !filepath.IsAbs(root) {
				root = filepath.Join(filepath.Dir(path), root)
			}
			return filepath.Clean(root), true
		}
	}
	return "", false
}
