package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/bookdiff/internal/config"
	"github.com/nao1215/bookdiff/internal/log"
	"github.com/nao1215/bookdiff/internal/pipeline"
	"github.com/nao1215/bookdiff/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve comparisons over HTTP",
		Long: `Serve starts an HTTP API that compares page sources on this machine.

Routes:
  GET  /healthz           liveness check
  POST /v1/compare        {"old": "...", "new": "...", "threshold": 8, "algorithm": "perception"}
  GET  /v1/history        stored comparisons (requires --cache)
  GET  /v1/history/{id}   report of one stored comparison (requires --cache)

The comparison flags set the defaults for requests that omit a parameter.
Paths in requests are read from the server's file system, so keep the
default loopback address unless the server sits behind an authenticating
proxy.

Examples:
  bookdiff serve
  bookdiff serve --addr 127.0.0.1:9000 -d 12 --cache`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().String("addr", config.DefaultServerAddress, "Listen address")
	addParameterFlags(cmd)

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildParameterConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateParameters(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}

	logger := log.NewJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := pipeline.OpenCache(cfg, logger)
	opts := []server.Option{
		server.WithLogger(logger),
		server.WithVersion(getVersion()),
	}
	if c != nil {
		defer c.Close()
		opts = append(opts, server.WithHistory(c))
	}

	srv := server.New(cfg, pipeline.NewComparer(c, logger), opts...)
	fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s\n", addr)
	return srv.ListenAndServe(ctx, addr)
}
