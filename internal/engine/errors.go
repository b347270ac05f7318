package engine

import (
	"github.com/dshills/smartquotes/internal/engine/buffer"
	"github.com/dshills/smartquotes/internal/engine/history"
)

// Errors of the underlying buffer and history, so callers need only this
// package.
var (
	ErrOffsetOutOfRange = buffer.ErrOffsetOutOfRange
	ErrEditsOverlap     = buffer.ErrEditsOverlap
	ErrNothingToUndo    = history.ErrNothingToUndo
	ErrNothingToRedo    = history.ErrNothingToRedo
)
