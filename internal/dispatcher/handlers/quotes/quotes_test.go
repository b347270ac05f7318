package quotes_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/smartquotes/internal/dispatcher/execctx"
	"github.com/dshills/smartquotes/internal/dispatcher/handler"
	quotescmd "github.com/dshills/smartquotes/internal/dispatcher/handlers/quotes"
	"github.com/dshills/smartquotes/internal/engine"
	"github.com/dshills/smartquotes/internal/engine/cursor"
	"github.com/dshills/smartquotes/internal/language"
	"github.com/dshills/smartquotes/internal/picker"
	"github.com/dshills/smartquotes/internal/quotes"
	"github.com/dshills/smartquotes/internal/settings"
)

type doc struct {
	path  string
	store *settings.MemoryStore
}

func (d *doc) FilePath() string         { return d.path }
func (d *doc) Settings() settings.Store { return d.store }

func newDoc(path string) *doc {
	return &doc{path: path, store: settings.NewMemoryStore()}
}

func current(d *doc) string {
	v, _ := d.store.Get(settings.KeyCurrentLanguage)
	s, _ := v.(string)
	return s
}

func newHandler() *quotescmd.Handler {
	return quotescmd.NewHandler(language.NewService(language.Options{}), nil)
}

// pickTitle returns a picker that chooses the item titled title.
func pickTitle(title string) picker.Picker {
	return picker.Func(func(_ string, items []picker.Item) (int, error) {
		for i, it := range items {
			if it.Title == title {
				return i, nil
			}
		}
		return -1, picker.ErrCancelled
	})
}

func TestNamespace(t *testing.T) {
	h := newHandler()
	if h.Namespace() != "quotes" {
		t.Errorf("Namespace = %q", h.Namespace())
	}
	for _, name := range []string{quotescmd.ActionAutoDetect, quotescmd.ActionSetLanguage, quotescmd.ActionInsert} {
		if !h.CanHandle(name) {
			t.Errorf("CanHandle(%q) = false", name)
		}
	}
	if h.CanHandle("quotes.unknown") {
		t.Error("CanHandle accepted unknown action")
	}
}

func TestAutoDetect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.tex")
	if err := os.WriteFile(path, []byte("\\documentclass{article}\n\\usepackage[ngerman]{babel}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	d := newDoc(path)
	d.store.Set(settings.KeyCurrentLanguage, quotes.FrenchUCS)

	res := newHandler().HandleAction(handler.NewAction(quotescmd.ActionAutoDetect), execctx.New().WithDocument(d))
	if !res.IsOK() {
		t.Fatalf("result = %v %v", res.Status, res.Error)
	}
	if v, _ := res.GetData(quotescmd.DataLanguage); v != quotes.German {
		t.Errorf("language = %v", v)
	}
	if current(d) != quotes.German {
		t.Errorf("persisted %q", current(d))
	}
}

func TestAutoDetectRequiresDocument(t *testing.T) {
	res := newHandler().HandleAction(handler.NewAction(quotescmd.ActionAutoDetect), execctx.New())
	if !errors.Is(res.Error, execctx.ErrMissingDocument) {
		t.Errorf("error = %v", res.Error)
	}
}

func TestSetLanguage(t *testing.T) {
	tests := []struct {
		name   string
		action handler.Action
		picker picker.Picker
		status handler.ResultStatus
		want   string
		err    error
	}{
		{
			name:   "explicit language",
			action: handler.NewAction(quotescmd.ActionSetLanguage, quotescmd.ArgLanguage, quotes.GermanUCS),
			status: handler.StatusOK,
			want:   quotes.GermanUCS,
		},
		{
			name:   "unsupported language",
			action: handler.NewAction(quotescmd.ActionSetLanguage, quotescmd.ArgLanguage, "klingon"),
			status: handler.StatusError,
			err:    language.ErrUnsupported,
		},
		{
			name:   "locale",
			action: handler.NewAction(quotescmd.ActionSetLanguage, quotescmd.ArgLocale, "de-AT"),
			status: handler.StatusOK,
			want:   quotes.German,
		},
		{
			name:   "picked from the list",
			action: handler.NewAction(quotescmd.ActionSetLanguage),
			picker: pickTitle("french-babel"),
			status: handler.StatusOK,
			want:   "french-babel",
		},
		{
			name:   "picker cancelled",
			action: handler.NewAction(quotescmd.ActionSetLanguage),
			picker: pickTitle("nothing"),
			status: handler.StatusCancelled,
		},
		{
			name:   "no picker",
			action: handler.NewAction(quotescmd.ActionSetLanguage),
			status: handler.StatusError,
			err:    execctx.ErrMissingPicker,
		},
		{
			name:   "bad argument type",
			action: handler.NewAction(quotescmd.ActionSetLanguage, quotescmd.ArgLanguage, 3),
			status: handler.StatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDoc("")
			ctx := execctx.New().WithDocument(d)
			if tt.picker != nil {
				ctx.WithPicker(tt.picker)
			}

			res := newHandler().HandleAction(tt.action, ctx)
			if res.Status != tt.status {
				t.Fatalf("status = %v (%v), want %v", res.Status, res.Error, tt.status)
			}
			if tt.err != nil && !errors.Is(res.Error, tt.err) {
				t.Errorf("error = %v, want %v", res.Error, tt.err)
			}
			if current(d) != tt.want {
				t.Errorf("persisted %q, want %q", current(d), tt.want)
			}
		})
	}
}

func TestItems(t *testing.T) {
	items := quotescmd.Items(quotes.Default)
	langs := quotes.Default.Languages()
	if len(items) != len(langs) {
		t.Fatalf("got %d items for %d languages", len(items), len(langs))
	}
	for i, it := range items {
		if it.Title != langs[i] || it.Detail != quotes.Default.Example(langs[i]) {
			t.Errorf("item %d = %+v", i, it)
		}
	}
}

func TestInsert(t *testing.T) {
	d := newDoc("")
	d.store.Set(settings.KeyCurrentLanguage, quotes.English)
	e := engine.New(engine.WithContent("x y"), engine.WithSelections(
		cursor.NewSelection(0, 1),
		cursor.NewSelection(2, 3),
	))
	ctx := execctx.New().WithDocument(d).WithSurface(e)

	res := newHandler().HandleAction(handler.NewAction(quotescmd.ActionInsert, quotescmd.ArgQuoteType, "single"), ctx)
	if !res.IsOK() {
		t.Fatalf("result = %v %v", res.Status, res.Error)
	}
	if e.Text() != "`x' `y'" {
		t.Errorf("text = %q", e.Text())
	}
	if v, _ := res.GetData(quotescmd.DataInsertions); v != 4 {
		t.Errorf("insertions = %v", v)
	}

	res = newHandler().HandleAction(handler.NewAction(quotescmd.ActionInsert,
		quotescmd.ArgWhichQuote, "close",
		quotescmd.ArgLanguage, quotes.FrenchUCS,
	), ctx)
	if !res.IsOK() {
		t.Fatalf("result = %v %v", res.Status, res.Error)
	}
	if e.Text() != "`x»' `y»'" {
		t.Errorf("text = %q", e.Text())
	}
	if current(d) != quotes.English {
		t.Errorf("one-call language was persisted: %q", current(d))
	}
}

func TestInsertErrors(t *testing.T) {
	d := newDoc("")
	e := engine.New(engine.WithContent("x"))

	tests := []struct {
		name   string
		action handler.Action
		ctx    *execctx.ExecutionContext
		err    error
	}{
		{"no surface", handler.NewAction(quotescmd.ActionInsert), execctx.New().WithDocument(d), execctx.ErrMissingSurface},
		{"bad kind", handler.NewAction(quotescmd.ActionInsert, quotescmd.ArgQuoteType, "triple"), execctx.New().WithDocument(d).WithSurface(e), quotes.ErrUnknownKind},
		{"bad mode", handler.NewAction(quotescmd.ActionInsert, quotescmd.ArgWhichQuote, "middle"), execctx.New().WithDocument(d).WithSurface(e), nil},
		{"bad language", handler.NewAction(quotescmd.ActionInsert, quotescmd.ArgLanguage, "klingon"), execctx.New().WithDocument(d).WithSurface(e), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newHandler().HandleAction(tt.action, tt.ctx)
			if !res.IsError() {
				t.Fatalf("status = %v", res.Status)
			}
			if tt.err != nil && !errors.Is(res.Error, tt.err) {
				t.Errorf("error = %v, want %v", res.Error, tt.err)
			}
		})
	}
	if e.Text() != "x" {
		t.Errorf("failed inserts changed the text: %q", e.Text())
	}
}
