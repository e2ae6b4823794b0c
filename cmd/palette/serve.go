package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/palette/internal/logging"
	"github.com/agentstation/palette/server"
)

var (
	serverHost string
	serverPort int
	serverMode string
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API used by the flow editor.

The server provides endpoints for:
- Listing, fetching and querying templates
- JSON Schemas of template params
- Creating node instances
- Validating flows
- Health checks`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "Server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "Server port (overrides config)")
	serveCmd.Flags().StringVar(&serverMode, "mode", "", "Server mode (debug, release, test)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cfg, catalog, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.FromContext(ctx)
	srv := server.New(cfg, catalog, logger)
	srv.Setup()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return <-errCh
}
