package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"coldreach/internal/model"
	"coldreach/internal/store"
)

var noHistory bool

var runCmd = &cobra.Command{
	Use:   "run <url>",
	Short: "Generate cold emails for one careers-page URL",
	Long:  "Fetches the page, extracts job postings, matches portfolio links, and prints one email per job.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record generated emails")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	runs, closeRuns, err := setupHistory(cfg.History.DBPath, noHistory)
	if err != nil {
		logger.Error("failed to open history store", "error", err)
		os.Exit(1)
	}
	defer closeRuns()

	p, links, err := buildPipeline(cfg, runs, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer links.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results, err := p.Run(ctx, args[0])
	if err != nil {
		logger.Error("run failed", "url", args[0], "error", err, "timeout", model.IsTimeout(err))
		os.Exit(1)
	}

	if len(results) == 0 {
		fmt.Println("No jobs were extracted from that page.")
		return nil
	}

	for i, res := range results {
		fmt.Printf("--- Email %d of %d: %s ---\n\n", i+1, len(results), res.Job.RoleOr("unknown role"))
		fmt.Println(res.Email)
		fmt.Println()
	}
	return nil
}

// setupHistory returns the run store and a close func. With history disabled
// nothing is persisted.
func setupHistory(dbPath string, disabled bool) (model.RunStore, func(), error) {
	if disabled {
		return store.NewNopStore(), func() {}, nil
	}
	sqlStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return sqlStore, func() { sqlStore.Close() }, nil
}
