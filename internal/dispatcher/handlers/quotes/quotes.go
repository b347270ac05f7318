package quotes

import (
	"errors"
	"fmt"

	"github.com/dshills/smartquotes/internal/dispatcher/execctx"
	"github.com/dshills/smartquotes/internal/dispatcher/handler"
	"github.com/dshills/smartquotes/internal/language"
	"github.com/dshills/smartquotes/internal/picker"
	"github.com/dshills/smartquotes/internal/quotes"
	"github.com/dshills/smartquotes/internal/quoting"
)

// Action names for quote operations.
const (
	ActionAutoDetect  = "quotes.autoDetectLanguage"
	ActionSetLanguage = "quotes.setLanguage"
	ActionInsert      = "quotes.insert"
)

// Argument names.
const (
	ArgLanguage   = "language"
	ArgLocale     = "locale"
	ArgQuoteType  = "quote_type"
	ArgWhichQuote = "which_quote"
)

// Result data keys.
const (
	DataLanguage   = "language"
	DataInsertions = "insertions"
)

// pickerTitle is shown above the language list.
const pickerTitle = "Quote language"

// Handler handles the quote actions.
type Handler struct {
	service  *language.Service
	inserter *quoting.Inserter
}

// NewHandler creates a quote handler. A nil inserter is built from
// service.
func NewHandler(service *language.Service, inserter *quoting.Inserter) *Handler {
	if inserter == nil {
		inserter = quoting.NewInserter(service)
	}
	return &Handler{service: service, inserter: inserter}
}

// Namespace returns the quotes namespace.
func (h *Handler) Namespace() string {
	return "quotes"
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionAutoDetect, ActionSetLanguage, ActionInsert:
		return true
	}
	return false
}

// HandleAction processes a quote action.
func (h *Handler) HandleAction(action handler.Action, ctx *execctx.ExecutionContext) handler.Result {
	switch action.Name {
	case ActionAutoDetect:
		return h.autoDetect(ctx)
	case ActionSetLanguage:
		return h.setLanguage(action, ctx)
	case ActionInsert:
		return h.insert(action, ctx)
	default:
		return handler.Errorf("unknown quotes action: %s", action.Name)
	}
}

func (h *Handler) autoDetect(ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	lang := h.service.Resolve(ctx.Document)
	return handler.SuccessWithMessage(fmt.Sprintf("Quote language: %s", lang)).
		WithData(DataLanguage, lang)
}

func (h *Handler) setLanguage(action handler.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}

	lang, err := action.String(ArgLanguage)
	if err != nil {
		return handler.Error(err)
	}
	locale, err := action.String(ArgLocale)
	if err != nil {
		return handler.Error(err)
	}

	switch {
	case lang != "":
	case locale != "":
		wide := quotes.IsWide(h.service.Default())
		if lang, err = h.service.Table().MatchLocale(locale, wide); err != nil {
			return handler.Error(err)
		}
	default:
		if lang, err = h.pick(ctx); err != nil {
			if errors.Is(err, picker.ErrCancelled) {
				return handler.Cancelled()
			}
			return handler.Error(err)
		}
	}

	if err := h.service.SetCurrent(ctx.Document, lang); err != nil {
		return handler.Error(err)
	}
	return handler.SuccessWithMessage(fmt.Sprintf("Quote language set to: %s", lang)).
		WithData(DataLanguage, lang)
}

// pick shows the language list with a usage example per entry.
func (h *Handler) pick(ctx *execctx.ExecutionContext) (quotes.Language, error) {
	if err := ctx.ValidateForPick(); err != nil {
		return "", err
	}
	langs := h.service.Table().Languages()
	idx, err := ctx.Picker.Pick(pickerTitle, Items(h.service.Table()))
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(langs) {
		return "", picker.ErrCancelled
	}
	return langs[idx], nil
}

func (h *Handler) insert(action handler.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.ValidateForEdit(); err != nil {
		return handler.Error(err)
	}

	req, err := parseRequest(action)
	if err != nil {
		return handler.Error(err)
	}
	res, err := h.inserter.Insert(ctx.Surface, ctx.Document, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.Success().
		WithData(DataLanguage, res.Language).
		WithData(DataInsertions, res.Insertions)
}

func parseRequest(action handler.Action) (quoting.Request, error) {
	var req quoting.Request

	kind, err := action.String(ArgQuoteType)
	if err != nil {
		return req, err
	}
	if req.Kind, err = quotes.ParseKind(kind); err != nil {
		return req, err
	}

	mode, err := action.String(ArgWhichQuote)
	if err != nil {
		return req, err
	}
	if req.Mode, err = quoting.ParseMode(mode); err != nil {
		return req, err
	}

	req.Language, err = action.String(ArgLanguage)
	return req, err
}

// Items returns the picker entries of table in Languages order.
func Items(table *quotes.Table) []picker.Item {
	langs := table.Languages()
	items := make([]picker.Item, len(langs))
	for i, lang := range langs {
		items[i] = picker.Item{Title: lang, Detail: table.Example(lang)}
	}
	return items
}
