package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/safaedu/schoolsync/internal/config"
	"github.com/safaedu/schoolsync/internal/session"
	"github.com/safaedu/schoolsync/internal/source"
	"github.com/safaedu/schoolsync/internal/syncer"
	"github.com/safaedu/schoolsync/internal/transport"
	_ "github.com/mattn/go-sqlite3"
)

// Exit codes: 0 sync succeeded, 1 sync failed, 2 configuration error.
const (
	exitSuccess = 0
	exitFailure = 1
	exitConfig  = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse command-line flags
	configFile := flag.String("config", "", "Path to configuration file (TOML)")
	flag.Parse()

	// Load and validate configuration before touching the database or
	// the network
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err, "config_file", *configFile)
		return exitConfig
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		return exitConfig
	}

	// Initialize structured logger per configuration
	logger := buildLogger(cfg.Logging)
	slog.SetDefault(logger)

	slog.Info("starting school database sync",
		"driver", cfg.Database.Driver,
		"dsn", cfg.Database.DSN,
		"api_url", cfg.API.BaseURL,
		"target_database", cfg.Sync.Database)

	// Cancel the run on SIGINT/SIGTERM. An interrupted run leaves the
	// remote service in a partial state the next run's session reset
	// clears.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the source database
	store, err := source.OpenWithConfig(cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err, "driver", cfg.Database.Driver)
		return exitFailure
	}

	// Extract all tables fully into memory before any network call
	syncRun := syncer.NewRun(logger)
	extractor := source.NewExtractor(store, syncRun.Logger)
	report := extractor.ExtractAll(ctx)

	// Close the database early to free the source's limited connections
	// before the upload phase
	if err := store.Close(); err != nil {
		slog.Warn("failed to close database cleanly", "error", err)
	} else {
		slog.Info("database connection closed")
	}

	if ctx.Err() != nil {
		slog.Warn("sync cancelled during extraction")
		return exitFailure
	}

	// Drive the sync pipeline
	client := transport.NewClient(cfg.API.BaseURL, syncRun.Logger)
	sessionController := session.NewController(client, cfg.Timeouts().Reset, syncRun.Logger)
	orchestrator := syncer.New(syncRun, cfg.Sync, client, sessionController, cfg.RetryPolicy(), cfg.Timeouts())

	result := orchestrator.Sync(ctx, report.Tables)
	if !result.Success {
		return exitFailure
	}

	for _, t := range result.Tables {
		slog.Info("table result",
			"table", t.Table,
			"records", t.Records,
			"processed", t.Processed,
			"batches", t.Batches,
			"skipped", t.Skipped)
	}
	return exitSuccess
}

func buildLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
