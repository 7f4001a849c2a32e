package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLanguagesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "languages <language>...",
		Short: "Count snippet files and snippets per language",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			for _, id := range args {
				if _, err := e.ex.AddLanguage(cmd.Context(), id); err != nil {
					return err
				}
			}
			counts, err := e.st.Languages()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, lc := range counts {
				fmt.Fprintf(out, "%-20s %4d files %6d snippets\n", lc.Language, lc.Files, lc.Snippets)
			}
			return nil
		},
	}
}
