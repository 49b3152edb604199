package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"budgetbook/internal/amqp"
	"budgetbook/internal/auth"
	"budgetbook/internal/cache"
	"budgetbook/internal/config"
	apphttp "budgetbook/internal/http"
	"budgetbook/internal/ledger"
	"budgetbook/internal/log"
	"budgetbook/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	slog.SetDefault(logger.Logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var userStore interface {
		store.UserStore
		store.AccountStore
	}
	switch cfg.DataBackend {
	case config.BackendSQLite:
		db, err := store.OpenSQLite(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer db.Close()
		userStore = db
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	default:
		userStore = store.NewMemory()
		logger.Info("Initialized memory backend")
	}

	var engineOpts []ledger.Option
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		engineOpts = append(engineOpts, ledger.WithEvents(client))
		logger.Info("Ledger event publishing enabled", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("Ledger event publishing disabled - no AMQP_URL provided")
	}

	engine := ledger.New(userStore, engineOpts...)
	authSvc := auth.NewService(userStore, cfg.MaxSessions, cfg.SessionTTL)

	srv := apphttp.NewServer(":"+cfg.Port, engine, authSvc, apphttp.Options{
		RequestsPerMinute: cfg.RequestsPerMinute,
	})

	sweeper := cache.NewSweeper(authSvc.Sessions())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting budgetbook server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sweeper.Run(10 * time.Minute)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sweeper.Stop()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
