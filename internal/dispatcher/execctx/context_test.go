package execctx

import (
	"errors"
	"testing"

	"github.com/dshills/smartquotes/internal/engine"
	"github.com/dshills/smartquotes/internal/picker"
	"github.com/dshills/smartquotes/internal/settings"
)

type doc struct{}

func (doc) FilePath() string         { return "" }
func (doc) Settings() settings.Store { return settings.NewMemoryStore() }

func TestValidate(t *testing.T) {
	ctx := New()
	if err := ctx.Validate(); !errors.Is(err, ErrMissingDocument) {
		t.Errorf("Validate = %v", err)
	}

	ctx.WithDocument(doc{})
	if err := ctx.Validate(); err != nil {
		t.Errorf("Validate = %v", err)
	}
	if err := ctx.ValidateForEdit(); !errors.Is(err, ErrMissingSurface) {
		t.Errorf("ValidateForEdit = %v", err)
	}
	if err := ctx.ValidateForPick(); !errors.Is(err, ErrMissingPicker) {
		t.Errorf("ValidateForPick = %v", err)
	}

	ctx.WithSurface(engine.New()).WithPicker(picker.Func(func(string, []picker.Item) (int, error) { return 0, nil }))
	if err := ctx.ValidateForEdit(); err != nil {
		t.Errorf("ValidateForEdit = %v", err)
	}
	if err := ctx.ValidateForPick(); err != nil {
		t.Errorf("ValidateForPick = %v", err)
	}
}

func TestData(t *testing.T) {
	ctx := &ExecutionContext{}
	if _, ok := ctx.GetData("k"); ok {
		t.Error("unexpected data")
	}
	ctx.SetData("k", 1)
	if v, ok := ctx.GetData("k"); !ok || v != 1 {
		t.Errorf("GetData = %v, %v", v, ok)
	}
}
