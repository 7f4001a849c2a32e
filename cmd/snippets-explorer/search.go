package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DeusData/snippets-explorer/internal/store"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		languages []string
		kind      string
		fuzzy     bool
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search snippets by name, prefix or description",
		Long: `Search snippets by name, prefix or description.

The languages given with --language are enumerated first; with a single
language the results are restricted to it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(languages) == 0 {
				return fmt.Errorf("at least one --language is required")
			}
			e, err := newEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			for _, id := range languages {
				if _, err := e.ex.AddLanguage(cmd.Context(), id); err != nil {
					return err
				}
			}

			params := store.SearchParams{Query: args[0], Kind: kind, Limit: limit}
			if len(languages) == 1 {
				params.Language = languages[0]
			}
			var output *store.SearchOutput
			if fuzzy {
				output, err = e.st.FuzzySearch(params)
			} else {
				output, err = e.st.Search(params)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range output.Results {
				fmt.Fprintf(out, "%s  %s  %s\n",
					TitleStyle.Render(r.Language),
					r.Prefix+"  "+r.Name,
					SubtitleStyle.Render(e.ex.DisplayPath(r.FilePath)))
			}
			if output.Total > len(output.Results) {
				fmt.Fprintln(out, SubtitleStyle.Render(fmt.Sprintf("... %d more", output.Total-len(output.Results))))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&languages, "language", "l", nil, "language ids to search (repeatable)")
	cmd.Flags().StringVar(&kind, "kind", "", "only this source kind ("+strings.Join(kindNames(), ", ")+")")
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "rank by fuzzy match")
	cmd.Flags().IntVar(&limit, "limit", 20, "max results")
	return cmd
}

func kindNames() []string {
	return []string{"PROJECT", "USER", "EXTENSION", "BUILTIN", "GLOBAL_USER", "EXTENSION_PACKAGEJSON"}
}
