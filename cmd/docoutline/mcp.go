package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/tool"
)

func newMCPCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the extract_outline tool over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			// Stdout carries the protocol.
			log := newLogger(os.Stderr, cfg)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w, err := newWorker(ctx, cfg, log)
			if err != nil {
				return err
			}

			srv := tool.NewServer(tool.NewOutliner(w), version)
			log.Info("starting mcp server", "version", version)
			return srv.Run(ctx, &mcp.StdioTransport{})
		},
	}
}
