package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"github.com/dshills/smartquotes/internal/dispatcher/handler"
	quotescmd "github.com/dshills/smartquotes/internal/dispatcher/handlers/quotes"
	"github.com/dshills/smartquotes/internal/engine"
	"github.com/dshills/smartquotes/internal/engine/cursor"
)

type insertOptions struct {
	at       []string
	kind     string
	mode     string
	language string
	write    bool
}

func newInsertCmd(g *globalOptions) *cobra.Command {
	o := &insertOptions{}

	cmd := &cobra.Command{
		Use:   "insert FILE --at START[:END]...",
		Short: "Insert quotes at byte offsets of a document",
		Long: "Loads FILE, places a cursor or selection at every --at offset and inserts the quotes of the document language. " +
			"A selection START:END is wrapped in both mode. The result is printed unless --write is given.",
		Example: "  smartquotes insert thesis.tex --at 120:131\n" +
			"  smartquotes insert thesis.tex --at 40 --at 52 --kind single --mode open --write",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sels, err := parseSelections(o.at)
			if err != nil {
				return err
			}

			a, err := g.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			doc, err := a.OpenDocument(args[0])
			if err != nil {
				return err
			}
			doc.Engine.SetSelections(sels)

			action := handler.NewAction(quotescmd.ActionInsert,
				quotescmd.ArgQuoteType, o.kind,
				quotescmd.ArgWhichQuote, o.mode,
				quotescmd.ArgLanguage, o.language,
			)
			res := a.Execute(action, doc)
			if res.IsError() {
				return res.Error
			}

			if n, ok := res.GetData(quotescmd.DataInsertions); ok {
				lang, _ := res.GetData(quotescmd.DataLanguage)
				okColor.Fprintf(cmd.ErrOrStderr(), "Inserted %v quote(s) for %v\n", n, lang)
			}
			printSelections(cmd.ErrOrStderr(), doc.Engine.Selections())

			if o.write {
				return a.SaveDocument(doc)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), doc.Engine.Text())
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&o.at, "at", nil, "cursor offset or START:END selection (repeatable)")
	flags.StringVar(&o.kind, "kind", "double", "quote kind: single|double")
	flags.StringVar(&o.mode, "mode", "both", "which quote: open|close|both")
	flags.StringVar(&o.language, "language", "", "use this language once instead of the document language")
	flags.BoolVarP(&o.write, "write", "w", false, "write the result back to FILE")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

// parseSelections parses "OFFSET" and "ANCHOR:HEAD" byte offsets.
func parseSelections(values []string) ([]engine.Selection, error) {
	sels := make([]engine.Selection, 0, len(values))
	for _, v := range values {
		first, second, isRange := strings.Cut(v, ":")
		anchor, err := parseOffset(first)
		if err != nil {
			return nil, fmt.Errorf("--at %q: %w", v, err)
		}
		if !isRange {
			sels = append(sels, cursor.NewCursorSelection(anchor))
			continue
		}
		head, err := parseOffset(second)
		if err != nil {
			return nil, fmt.Errorf("--at %q: %w", v, err)
		}
		sels = append(sels, cursor.NewSelection(anchor, head))
	}
	return sels, nil
}

func parseOffset(s string) (engine.ByteOffset, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q", s)
	}
	off, err := safecast.Conv[engine.ByteOffset](n)
	if err != nil {
		return 0, fmt.Errorf("offset %q: %w", s, err)
	}
	return off, nil
}

func printSelections(w io.Writer, sels []engine.Selection) {
	parts := make([]string, len(sels))
	for i, sel := range sels {
		if sel.IsEmpty() {
			parts[i] = strconv.FormatInt(sel.Head, 10)
			continue
		}
		parts[i] = fmt.Sprintf("%d:%d", sel.Anchor, sel.Head)
	}
	statusColor.Fprintf(w, "Selections: %s\n", strings.Join(parts, " "))
}
