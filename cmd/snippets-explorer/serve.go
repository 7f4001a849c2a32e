package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/DeusData/snippets-explorer/internal/tools"
	"github.com/DeusData/snippets-explorer/internal/watcher"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		watch   bool
		preload []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			for _, id := range preload {
				if _, err := e.ex.AddLanguage(ctx, id); err != nil {
					return err
				}
			}

			if watch {
				w := watcher.New(e.ex.Sources().Dirs, func(ctx context.Context, _ string) error {
					_, err := e.ex.Refresh(ctx, "")
					return err
				}, e.cfg.EffectiveWatchInterval())
				go w.Run(ctx)
			}

			srv := tools.NewServer(e.ex, version)
			slog.Info("serve.start", "watch", watch, "preload", preload)
			return srv.MCPServer().Run(ctx, &mcp.StdioTransport{})
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "rescan when snippet files change")
	cmd.Flags().StringSliceVar(&preload, "preload", nil, "languages to enumerate before serving")
	return cmd
}
