package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/DeusData/snippets-explorer/internal/config"
	"github.com/DeusData/snippets-explorer/internal/explorer"
	"github.com/DeusData/snippets-explorer/internal/pipeline"
	"github.com/DeusData/snippets-explorer/internal/store"
)

type rootOptions struct {
	configPath string
	projectDir string
	verbose    bool
	quiet      bool
}

// env is everything a subcommand needs, built once per invocation.
type env struct {
	cfg *config.Config
	ex  *explorer.Explorer
	st  *store.Store
}

func (e *env) Close() {
	if e.st != nil {
		e.st.Close()
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "snippets-explorer",
		Short: "Browse the code snippets available to the editor",
		Long: TitleStyle.Render("snippets-explorer") + SubtitleStyle.Render(" - browse editor code snippets") + `

Finds every snippet file that applies to a language: project .vscode
files, user snippets, installed extensions and built-in extensions.
When several versions of one extension are installed only the newest
one is shown.

` + SubtitleStyle.Render("Examples:") + `
  snippets-explorer list go              Snippet files and snippets for Go
  snippets-explorer search iferr         Search by name, prefix or description
  snippets-explorer show go <file> <name>
  snippets-explorer serve --watch        MCP server over stdio`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd.ErrOrStderr(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default is <project>/"+config.FileName+")")
	cmd.PersistentFlags().StringVarP(&opts.projectDir, "project", "C", "", "project directory (default: current directory)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "only log errors")

	cmd.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newSearchCmd(opts),
		newLanguagesCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// setupLogging routes slog through a charm logger on w.
func setupLogging(w io.Writer, opts *rootOptions) {
	level := log.WarnLevel
	switch {
	case opts.verbose:
		level = log.DebugLevel
	case opts.quiet:
		level = log.ErrorLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "snippets-explorer",
	})
	slog.SetDefault(slog.New(logger))
}

// newEnv loads configuration and wires the explorer with its catalog.
func newEnv(opts *rootOptions) (*env, error) {
	projectDir := opts.projectDir
	if projectDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		projectDir = wd
	}
	projectDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("project dir: %w", err)
	}

	cfg := config.LoadConfig(projectDir)
	baseDir := projectDir
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
		if err != nil {
			return nil, err
		}
		baseDir = filepath.Dir(opts.configPath)
	}
	cfg.Apply()

	sources := cfg.Resolve(runtime.GOOS, os.Getenv, baseDir)
	slog.Debug("config.sources",
		"project", sources.ProjectDirs,
		"user", sources.UserSnippetsDir,
		"extensions", sources.ExtensionRoots,
		"builtin", sources.BuiltinRoots,
		"portable", sources.PortableSnippetsDir,
	)

	st, err := store.OpenMemory()
	if err != nil {
		return nil, err
	}
	ex := explorer.New(&pipeline.Enumerator{
		Sources:          sources,
		MaxConcurrency:   cfg.EffectiveMaxConcurrency(),
		VerboseReconcile: cfg.EffectiveVerboseReconcile(),
	}, st)
	return &env{cfg: cfg, ex: ex, st: st}, nil
}
