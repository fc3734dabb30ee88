package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/tally/internal/cli"
	"github.com/alexanderramin/tally/internal/config"
	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/llm"
	"github.com/alexanderramin/tally/internal/logging"
	"github.com/alexanderramin/tally/internal/narrative"
	"github.com/alexanderramin/tally/internal/repository"
	"github.com/alexanderramin/tally/internal/service"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.JSON, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Wire the narrative step (only when a model is configured)
	var narrator service.Narrator
	llmCfg := cfg.LLMConfig()
	if llmCfg.Enabled() {
		var observer llm.Observer = llm.NoopObserver{}
		if llmCfg.LogCalls {
			observer = llm.NewLogObserver(logger)
		}
		client, err := llm.NewClient(ctx, llmCfg, observer)
		if err != nil {
			return fmt.Errorf("creating %s client: %w", llmCfg.Provider, err)
		}

		cache, database, err := openCache(cfg)
		if err != nil {
			return err
		}
		if database != nil {
			defer database.Close()
		}

		narrator = narrative.NewService(client, narrative.Options{
			Provider: string(llmCfg.Provider),
			Model:    llmCfg.ModelName(),
			Cache:    cache,
			Logger:   logger.Named("narrative"),
			Timeout:  llmCfg.TaskTimeout(llm.TaskNarrative),
		})
	}

	reports := service.NewReportService(narrator,
		service.ReportOptions{NarrativeTimeout: cfg.NarrativeTimeout()},
		service.NewLogUseCaseObserver(logger),
	)

	app := &cli.App{
		Reports:          reports,
		NarrativeEnabled: narrator != nil,
		Config:           cfg,
		Logger:           logger,
		Version:          version,
	}

	// Detect interactive terminal for the dashboard.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	logger.Debug("configured",
		zap.String("config", cfg.Source),
		zap.Bool("narrative", app.NarrativeEnabled),
		zap.String("cache", cfg.Cache.Path),
	)

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}

// openCache returns the SQLite-backed narrative cache when a path is
// configured, otherwise an in-memory one. The returned database, if any,
// must be closed by the caller.
func openCache(cfg *config.Config) (narrative.Cache, *sql.DB, error) {
	if cfg.Cache.Path == "" {
		return narrative.NewMemoryCache(cfg.Cache.MaxEntries), nil, nil
	}
	database, err := db.OpenDB(cfg.Cache.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening narrative cache: %w", err)
	}
	return repository.NewSQLiteNarrativeRepo(database, cfg.Cache.MaxEntries), database, nil
}
