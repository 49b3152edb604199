package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"budgetbook/internal/amqp"
	"budgetbook/internal/config"
	"budgetbook/internal/export"
	"budgetbook/internal/log"
	"budgetbook/internal/store"
	"budgetbook/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{Level: slog.LevelInfo, Component: log.ComponentWorker})
	slog.SetDefault(logger.Logger)

	logger.Info("Starting budgetbook-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	db, err := store.OpenSQLite(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open SQLite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	writers := []worker.SummaryWriter{export.NewCSVWriter(cfg.ExportCSVPath)}
	logger.Info("CSV export enabled", "path", cfg.ExportCSVPath)

	if cfg.GoogleSpreadsheetID != "" {
		sheets, err := export.NewSheetsWriterFromEnv(ctx, cfg.GoogleSpreadsheetID, cfg.SummarySheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets writer", "error", err)
			os.Exit(1)
		}
		writers = append(writers, sheets)
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	exporter := worker.NewExportWorker(db, writers...)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		g.Go(func() error {
			return client.ConsumeLedgerEvents(gctx, exporter.HandleLedgerEvent)
		})
	} else {
		logger.Info("Event consumption disabled - no AMQP_URL provided, relying on periodic export")
	}

	g.Go(func() error {
		return exporter.RunPeriodic(gctx, cfg.ExportInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
