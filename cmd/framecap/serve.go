package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nao1215/framecap/internal/config"
	"github.com/nao1215/framecap/internal/database"
	"github.com/nao1215/framecap/internal/fetch"
	"github.com/nao1215/framecap/internal/log"
	"github.com/nao1215/framecap/internal/server"
	"github.com/spf13/cobra"
)

// defaultServeAddr is the loopback listen address used when --addr is not
// given. Loopback because the service drives a local browser; exposing it
// is an explicit decision.
const defaultServeAddr = "127.0.0.1:8943"

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the capture HTTP service",
		Long: `Serve runs an HTTP service that accepts capture requests and returns
finished IR documents.

POST /api/captures accepts {"url": "...", "breakpoints": [...]} and replies
202 with a job ID. Poll GET /api/captures/{id}/status until the job settles,
then GET /api/captures/{id} for the document. With --store, finished
captures are also persisted, so they stay retrievable by their store ID
after the in-memory job expires.

Examples:
  # Serve on the default loopback address
  framecap serve

  # Serve on a specific address with bearer-token authentication
  framecap serve --addr 0.0.0.0:8943 --api-key secret

  # Persist finished captures to the local store
  framecap serve --store

  # Use an already-running browser for rendering
  framecap serve --browser-url ws://127.0.0.1:9222/devtools/browser/...`,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", defaultServeAddr,
		"Listen address (host:port)")
	cmd.Flags().String("api-key", "",
		"Require this bearer token on API requests")
	cmd.Flags().Bool("store", false,
		"Persist finished captures to the local store")
	cmd.Flags().String("browser-url", "",
		"Attach to a running browser's remote debugging URL instead of launching one")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	apiKey, err := cmd.Flags().GetString("api-key")
	if err != nil {
		return err
	}
	store, err := cmd.Flags().GetBool("store")
	if err != nil {
		return err
	}
	browserURL, err := cmd.Flags().GetString("browser-url")
	if err != nil {
		return err
	}

	cfg := config.NewConfig()
	cfg.BrowserURL = browserURL

	// Set up structured logging
	verbose := getVerboseFlag(cmd)
	logger := log.NewCaptureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	source, err := newSource(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := source.Close(); err != nil {
			logger.Warn("failed to close snapshot source", "error", err)
		}
	}()

	client, err := fetch.NewClient(cfg.ProxyAddress,
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBytes(cfg.MaxAssetBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to create fetch client: %w", err)
	}

	serverOpts := []server.Option{server.WithServerLogger(logger)}
	if apiKey != "" {
		serverOpts = append(serverOpts, server.WithAPIKey(apiKey))
	}
	if store {
		db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open capture store: %w", err)
		}
		defer db.Close()
		serverOpts = append(serverOpts, server.WithDatabase(db))
		logger.Info("persisting captures", "dir", config.XDGDataDir())
	}

	srv := server.NewServer(cfg, source, client, serverOpts...)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on interrupt
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		logger.Info("received shutdown signal, stopping server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "addr", addr, "auth", apiKey != "")
	fmt.Printf("framecap API listening on http://%s\n", addr)

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
