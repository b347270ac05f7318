package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newDetectCmd(g *globalOptions) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "detect FILE...",
		Short: "Detect and remember the quote language of documents",
		Long: "Detects the language of each file from its root document and stores the result. " +
			"With --raw the detector output is printed as is, without fallback and without storing it.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			results := make([]string, len(args))
			group, ctx := errgroup.WithContext(cmd.Context())
			group.SetLimit(runtime.NumCPU())

			for i, path := range args {
				group.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					if raw {
						lang, ok, err := a.Language().Detect(path)
						if err != nil {
							return err
						}
						if !ok {
							lang = "-"
						}
						results[i] = lang
						return nil
					}

					doc, err := a.OpenDocument(path)
					if err != nil {
						return err
					}
					results[i] = a.Language().Resolve(doc)
					return nil
				})
			}
			if err := group.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, path := range args {
				if len(args) == 1 {
					fmt.Fprintln(out, results[i])
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", path, results[i])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the detector result (\"-\" when inconclusive)")
	return cmd
}
