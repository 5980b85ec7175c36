package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"uchet/internal/amqp"
	"uchet/internal/config"
	applog "uchet/internal/log"
	"uchet/internal/report"
	"uchet/internal/services"
	"uchet/internal/sheets"
	"uchet/internal/storage"
)

func main() {
	// Load .env for local development; ignore errors in production.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting uchet-scheduler")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var deliverers []services.Deliverer
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPIngestQueue, cfg.AMQPReportQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, reports will not reach the message queue",
				applog.FieldError, err)
		} else {
			defer amqpClient.Close()
			deliverers = append(deliverers, amqpClient)
		}
	}
	if cfg.SheetsEnabled() {
		sheetsClient, err := sheets.NewFromEnv(ctx)
		if err != nil {
			logger.Warn("Failed to initialize Sheets client, skipping spreadsheet export",
				applog.FieldError, err)
		} else {
			deliverers = append(deliverers, sheetsClient)
		}
	}
	if len(deliverers) == 0 {
		logger.Error("No delivery target configured")
		os.Exit(1)
	}

	aggregator := report.NewAggregator(repo)
	processor := services.NewMonthlyProcessor(
		repo, aggregator, deliverers, cfg.CurrencySuffix, cfg.ReportHour, logger)

	if len(cfg.BackfillMonths) > 0 {
		logger.Info("Running backfill", "months", len(cfg.BackfillMonths))
		processor.Backfill(ctx, cfg.BackfillMonths)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	logger.Info("Scheduler configured",
		"tick", cfg.SchedulerTick.String(),
		"report_hour", cfg.ReportHour)

	if err := processor.Run(ctx, cfg.SchedulerTick); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Scheduler stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("uchet-scheduler stopped gracefully")
}
