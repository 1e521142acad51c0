// Package cli implements the moodlog CLI commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rcliao/moodlog/internal/config"
	"github.com/rcliao/moodlog/internal/store"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string
	dataDir    string
	debugFlag  bool
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "moodlog",
	Short: "Mood export importer and query service",
	Long:  "Imports per-user mood export files into SQLite on a schedule and serves the history over HTTP.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Optional YAML config file")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $MOODLOG_DB or data.db)")
	RootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Export directory (default: $MOODLOG_DATA_DIR or data)")
	RootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

// loadConfig resolves the configuration; flags win over every other source.
func loadConfig() config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitErr("load config", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if debugFlag {
		cfg.Debug = true
	}
	return cfg
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openStore(cfg config.Config) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.DBPath)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
