package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/smartquotes/internal/app"
	"github.com/dshills/smartquotes/internal/dispatcher/handler"
	quotescmd "github.com/dshills/smartquotes/internal/dispatcher/handlers/quotes"
	"github.com/dshills/smartquotes/internal/picker"
	"github.com/dshills/smartquotes/internal/quotes"
)

func newLanguagesCmd(g *globalOptions) *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the supported quote languages",
		Long:  "Lists every language of the quote table with a sample of its quotes. With --locale only the language chosen for that BCP 47 locale is printed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			table := a.Table()
			if locale != "" {
				lang, err := table.MatchLocale(locale, quotes.IsWide(a.Language().Default()))
				if err != nil {
					return err
				}
				fmt.Fprintln(out, lang)
				return nil
			}

			for _, line := range picker.Lines(quotescmd.Items(table)) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "", "BCP 47 locale such as de-AT")
	return cmd
}

func newSetLanguageCmd(g *globalOptions) *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "set-language FILE [LANGUAGE]",
		Short: "Choose the quote language of a document",
		Long:  "Stores the quote language of FILE. Without LANGUAGE or --locale an interactive list is shown.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := handler.NewAction(quotescmd.ActionSetLanguage)
			if len(args) == 2 {
				action = action.WithArg(quotescmd.ArgLanguage, args[1])
			}
			if locale != "" {
				action = action.WithArg(quotescmd.ArgLocale, locale)
			}
			return g.runOnDocument(cmd, args[0], action)
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "", "choose the language for a BCP 47 locale")
	return cmd
}

func newAutoDetectCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "auto-detect FILE",
		Short: "Detect the quote language of a document again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.runOnDocument(cmd, args[0], handler.NewAction(quotescmd.ActionAutoDetect))
		},
	}
}

// runOnDocument executes action on the document at path and reports
// the resulting language.
func (g *globalOptions) runOnDocument(cmd *cobra.Command, path string, action handler.Action) error {
	a, err := g.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := a.OpenDocument(path)
	if err != nil {
		return err
	}
	return report(cmd, a, a.Execute(action, doc))
}

// report prints the language of a successful result on stdout and its
// message on stderr.
func report(cmd *cobra.Command, a *app.Application, res handler.Result) error {
	switch res.Status {
	case handler.StatusCancelled:
		warnColor.Fprintln(cmd.ErrOrStderr(), "Cancelled")
		return nil
	case handler.StatusError:
		if errors.Is(res.Error, picker.ErrNoTerminal) {
			return fmt.Errorf("%w; pass the language as an argument", res.Error)
		}
		return res.Error
	}

	if res.Message != "" {
		okColor.Fprintln(cmd.ErrOrStderr(), res.Message)
	}
	if lang, ok := res.GetData(quotescmd.DataLanguage); ok {
		fmt.Fprintln(cmd.OutOrStdout(), lang)
	}
	if st := a.State(); st != nil && st.Err() != nil {
		return fmt.Errorf("saving state: %w", st.Err())
	}
	return nil
}
