package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"uchet/internal/amqp"
	"uchet/internal/config"
	applog "uchet/internal/log"
	"uchet/internal/parse"
	"uchet/internal/report"
	"uchet/internal/services"
	"uchet/internal/storage"
	"uchet/internal/storage/memory"

	apphttp "uchet/internal/http"
)

// store is what the ingest path and the aggregator need from a backend.
type store interface {
	services.RecordStore
	report.RecordSource
	Close() error
}

func main() {
	// Load .env for local development; ignore errors in production.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting uchet")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	var st store
	switch cfg.DataBackend {
	case "memory":
		st = memory.New()
		logger.Info("Initialized memory backend")
	default:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository",
				applog.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		st = repo
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	}
	defer st.Close()

	var (
		amqpClient *amqp.Client
		acker      services.Acker
		err        error
	)
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPIngestQueue, cfg.AMQPReportQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without message transport",
				applog.FieldError, err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			acker = amqpClient
		}
	}

	parser := parse.New(parse.Options{
		ValidCategories:  cfg.ValidCategories,
		FallbackCategory: cfg.FallbackCategory,
		MinusChars:       cfg.MinusChars,
		CurrencySuffix:   cfg.CurrencySuffix,
	}, logger)

	ingest := services.NewIngestService(parser, st, acker, logger)
	aggregator := report.NewAggregator(st)

	srv := apphttp.NewServer(":"+cfg.Port, aggregator, cfg.CurrencySuffix)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-gctx.Done():
		}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		logger.Info("Starting report API", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if amqpClient != nil {
		g.Go(func() error {
			err := amqpClient.ConsumeIncoming(gctx, func(msg *amqp.IncomingMessage) error {
				_, _, err := ingest.HandleMessage(gctx, msg.Text, msg.ReceivedAt)
				return err
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		logger.Info("AMQP disabled, serving report API only")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Service error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("uchet stopped gracefully")
}
