package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DeusData/snippets-explorer/internal/explorer"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <language> <file> <name>",
		Short: "Print the body of one snippet",
		Long: `Print the body of one snippet, ready to paste.

<file> is either the full path or the display path shown by 'list'.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			languageID, file, name := args[0], args[1], args[2]
			if _, err := e.ex.AddLanguage(cmd.Context(), languageID); err != nil {
				return err
			}
			body, err := e.ex.Body(languageID, resolveFile(e.ex, languageID, file), name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), body)
			return nil
		},
	}
}

// resolveFile maps a display path back to the full path it came from.
func resolveFile(ex *explorer.Explorer, languageID, file string) string {
	for _, path := range ex.Tree().Files(languageID) {
		if path == file || ex.DisplayPath(path) == file {
			return path
		}
	}
	return file
}
