package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"coldreach/internal/model"
	"coldreach/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse <url>",
	Short: "Generate and browse emails interactively (TUI)",
	Long:  "Runs the pipeline with a progress spinner, then opens the generated emails in an interactive browser.",
	Args:  cobra.ExactArgs(1),
	RunE:  runBrowse,
}

func init() {
	browseCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record generated emails")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	// The TUI owns the terminal; any log output before the alt-screen
	// starts corrupts the display.
	silentLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		setupLogger(debug).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	runs, closeRuns, err := setupHistory(cfg.History.DBPath, noHistory)
	if err != nil {
		setupLogger(debug).Error("failed to open history store", "error", err)
		os.Exit(1)
	}
	defer closeRuns()

	p, links, err := buildPipeline(cfg, runs, silentLogger)
	if err != nil {
		setupLogger(debug).Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer links.Close()

	url := args[0]
	results, err := tui.RunLoader(url, func(ctx context.Context) ([]model.PipelineResult, error) {
		return p.Run(ctx, url)
	})
	if err != nil {
		setupLogger(debug).Error("run failed", "url", url, "error", err)
		os.Exit(1)
	}

	return tui.RunResults(results)
}
