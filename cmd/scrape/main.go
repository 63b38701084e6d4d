// Command scrape downloads a term of the time schedule and writes the
// schedule table and classroom registry used by roomfinder.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"timeschd-roomfinder/config"
	"timeschd-roomfinder/logging"
	"timeschd-roomfinder/scraper"
)

func main() {
	cfg, err := config.LoadConfig(os.Getenv("ROOMFINDER_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Level(config.DefaultLogLevel), cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error creating logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", uuid.New().String()), zap.String("term", cfg.Term))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scraper.New(cfg, logger).Run(ctx); err != nil {
		logger.Fatal("scrape failed", zap.Error(err))
	}
	logger.Info("scrape finished",
		zap.String("schedule_file", cfg.ScheduleFile),
		zap.String("registry_file", cfg.RegistryFile),
	)
}
