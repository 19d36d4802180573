package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"coldreach/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently generated emails",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of records to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
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

	records, err := sqlStore.Recent(historyLimit)
	if err != nil {
		logger.Error("failed to list history", "error", err)
		os.Exit(1)
	}

	if len(records) == 0 {
		fmt.Println("No emails generated yet.")
		return nil
	}

	for _, r := range records {
		fmt.Printf("#%d  %s  %s  %s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Role, r.URL)
		fmt.Println(indent(firstLines(r.Email, 3), "    "))
	}
	return nil
}

func firstLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = append(lines[:n], "…")
	}
	return strings.Join(lines, "\n")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
