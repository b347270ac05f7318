// Package execctx provides the execution context for action handlers.
package execctx

import (
	"github.com/dshills/smartquotes/internal/language"
	"github.com/dshills/smartquotes/internal/picker"
	"github.com/dshills/smartquotes/internal/quoting"
)

// ExecutionContext provides what a handler needs to run one action.
type ExecutionContext struct {
	// Document is the document the action applies to.
	Document language.Document

	// Surface is the editing surface of the document, if it is open.
	Surface quoting.Surface

	// Picker lets the user choose from a list.
	Picker picker.Picker

	// Data holds handler-specific context data.
	Data map[string]any
}

// New creates a new execution context.
func New() *ExecutionContext {
	return &ExecutionContext{Data: make(map[string]any)}
}

// WithDocument returns the context with the document set.
func (ctx *ExecutionContext) WithDocument(doc language.Document) *ExecutionContext {
	ctx.Document = doc
	return ctx
}

// WithSurface returns the context with the editing surface set.
func (ctx *ExecutionContext) WithSurface(s quoting.Surface) *ExecutionContext {
	ctx.Surface = s
	return ctx
}

// WithPicker returns the context with the picker set.
func (ctx *ExecutionContext) WithPicker(p picker.Picker) *ExecutionContext {
	ctx.Picker = p
	return ctx
}

// SetData sets a context data value.
func (ctx *ExecutionContext) SetData(key string, value any) {
	if ctx.Data == nil {
		ctx.Data = make(map[string]any)
	}
	ctx.Data[key] = value
}

// GetData retrieves a context data value.
func (ctx *ExecutionContext) GetData(key string) (any, bool) {
	if ctx.Data == nil {
		return nil, false
	}
	v, ok := ctx.Data[key]
	return v, ok
}

// Validate checks that the context has a document.
func (ctx *ExecutionContext) Validate() error {
	if ctx.Document == nil {
		return ErrMissingDocument
	}
	return nil
}

// ValidateForEdit checks that the context is valid for editing operations.
func (ctx *ExecutionContext) ValidateForEdit() error {
	if err := ctx.Validate(); err != nil {
		return err
	}
	if ctx.Surface == nil {
		return ErrMissingSurface
	}
	return nil
}

// ValidateForPick checks that the context can show a list to the user.
func (ctx *ExecutionContext) ValidateForPick() error {
	if err := ctx.Validate(); err != nil {
		return err
	}
	if ctx.Picker == nil {
		return ErrMissingPicker
	}
	return nil
}
