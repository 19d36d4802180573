package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"coldreach/internal/server"
	"coldreach/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline over HTTP",
	Long:  "Exposes POST /api/v1/generate; blocks until SIGINT/SIGTERM.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.History.DBPath)
	if err != nil {
		logger.Error("failed to open history store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	p, links, err := buildPipeline(cfg, sqlStore, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer links.Close()

	srv := server.New(p, cfg.Server.Addr, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}

	logger.Info("goodbye")
	return nil
}
