package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"coldreach/internal/ai"
	"coldreach/internal/config"
	"coldreach/internal/fetch"
	"coldreach/internal/model"
	"coldreach/internal/pipeline"
	"coldreach/internal/portfolio"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "coldreach",
	Short: "Cold outreach emails from careers pages",
	Long: "Coldreach scrapes a careers page, extracts job postings with an LLM,\n" +
		"matches them against your portfolio, and drafts cold outreach emails.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: COLDREACH_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > COLDREACH_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("COLDREACH_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// buildPipeline constructs the full pipeline from config. The returned store
// must be closed by the caller when the process is done with it.
func buildPipeline(cfg *config.Config, runs model.RunStore, logger *slog.Logger) (*pipeline.Pipeline, *portfolio.Store, error) {
	links, err := portfolio.New(cfg.Portfolio.SourcePath, cfg.Portfolio.IndexPath, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := links.Load(); err != nil {
		links.Close()
		return nil, nil, fmt.Errorf("load portfolio: %w", err)
	}

	fetcher := fetch.New(
		&http.Client{Timeout: cfg.Fetch.Timeout},
		cfg.Fetch.UserAgent,
		logger,
	)

	provider := ai.NewGroqProvider(
		cfg.LLM.BaseURL,
		cfg.LLM.APIKey,
		cfg.LLM.Model,
		&http.Client{Timeout: cfg.LLM.Timeout},
	)
	extractor := ai.NewExtractor(provider, ai.ExtractJobsTemplate, logger)
	composer := ai.NewComposer(provider, ai.WriteEmailTemplate, logger)

	p := pipeline.New(fetcher, extractor, links, composer, runs, logger)
	return p, links, nil
}
