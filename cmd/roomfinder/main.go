// Command roomfinder answers room schedule and availability questions from
// the files written by the scrape command.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"timeschd-roomfinder/cli"
	"timeschd-roomfinder/config"
	"timeschd-roomfinder/logging"
	"timeschd-roomfinder/schedule"
	"timeschd-roomfinder/uploader"
)

func main() {
	cfg, err := config.LoadConfig(os.Getenv("ROOMFINDER_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	// Prompts share the terminal with the log, so only warnings show unless
	// a level is configured.
	logger, err := logging.New(cfg.Level("warn"), cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error creating logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	fmt.Printf("Now loading classroom data from %s\n", cfg.RegistryFile)
	registry, err := schedule.LoadRegistry(cfg.RegistryFile)
	if err != nil {
		logger.Fatal("loading classrooms failed", zap.String("file", cfg.RegistryFile), zap.Error(err))
	}
	fmt.Printf("Now loading time schedule data from %s\n", cfg.ScheduleFile)
	table, err := schedule.LoadTable(cfg.ScheduleFile)
	if err != nil {
		logger.Fatal("loading time schedule failed", zap.String("file", cfg.ScheduleFile), zap.Error(err))
	}
	fmt.Println("Importing data finished")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []cli.Option{
		cli.WithLogger(logger),
		cli.WithLocation(cfg.Location()),
		cli.WithClock(func() time.Time { return time.Now().In(cfg.Location()) }),
		cli.WithCalendarDir(cfg.CalendarDir),
	}
	if cfg.GithubToken != "" && cfg.GithubRepo != "" {
		opts = append(opts, cli.WithPublisher(uploader.New(cfg.GithubToken, cfg.GithubRepo), cfg.GithubPath))
	}

	err = cli.New(os.Stdin, os.Stdout, table, registry, opts...).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("room finder stopped", zap.Error(err))
	}
}
