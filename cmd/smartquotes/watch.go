package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/smartquotes/internal/quotes"
)

func newWatchCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Detect the quote language again whenever a document changes",
		Long:  "Prints the language of FILE, then again each time FILE, its root document or the settings file changes. Stops on interrupt.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			doc, err := a.OpenDocument(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			last := quotes.Language("")
			return a.Watch(cmd.Context(), doc, func(lang quotes.Language) {
				if lang == last {
					return
				}
				last = lang
				fmt.Fprintln(out, lang)
			})
		},
	}
}
