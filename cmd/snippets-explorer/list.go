package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/DeusData/snippets-explorer/internal/explorer"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var filesOnly bool

	cmd := &cobra.Command{
		Use:   "list <language>",
		Short: "Show the snippet files and snippets for a language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			if _, err := e.ex.AddLanguage(cmd.Context(), args[0]); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderLanguage(e.ex, args[0], filesOnly))
			printErrors(out, e.ex)
			return nil
		},
	}
	cmd.Flags().BoolVar(&filesOnly, "files", false, "list files without their snippets")
	return cmd
}

// renderLanguage draws language -> files -> snippets.
func renderLanguage(ex *explorer.Explorer, languageID string, filesOnly bool) string {
	root := tree.Root(TitleStyle.Render(languageID))
	for _, rec := range ex.Tree().Records(languageID) {
		label := FileStyle.Render(explorer.FileLabel(rec.Meta)) + "  " +
			SubtitleStyle.Render(ex.DisplayPath(rec.FullPath()))
		if filesOnly {
			root.Child(label)
			continue
		}
		node := tree.Root(label)
		for _, sn := range rec.Snippets() {
			node.Child(explorer.SnippetLabel(sn))
		}
		root.Child(node)
	}
	return root.String()
}

func printErrors(w io.Writer, ex *explorer.Explorer) {
	for _, fe := range ex.LastErrors() {
		fmt.Fprintln(w, WarningStyle.Render("skipped ")+ex.DisplayPath(fe.Path)+": "+fe.Err.Error())
	}
}
