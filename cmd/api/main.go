package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ibrahimkeyboad/goledger/internal/adapter/handler"
	"github.com/ibrahimkeyboad/goledger/internal/adapter/storage"
	"github.com/ibrahimkeyboad/goledger/internal/core/config"
	"github.com/ibrahimkeyboad/goledger/internal/core/logger"
	"github.com/ibrahimkeyboad/goledger/internal/core/notifications"
	"github.com/ibrahimkeyboad/goledger/internal/core/worker"
)

func main() {
	// 1. Load Config
	cfg := config.LoadConfig()

	// 2. Setup Logger
	log, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger setup failed:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if !cfg.EnvFileLoaded {
		log.Debug("no .env file found, relying on system environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the ledger store; a store that cannot open is fatal.
	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("ledger store unavailable", zap.Error(err))
	}

	seedID, err := store.SeedAccount(ctx)
	if err != nil {
		log.Fatal("seed account failed", zap.Error(err))
	}

	// 4. Optional webhook delivery
	var notifier handler.Notifier
	var dispatcher *worker.Dispatcher
	if cfg.WebhookURL != "" {
		if cfg.WebhookSecret == "" {
			log.Warn("WEBHOOK_SECRET is empty, webhooks will be unsigned")
		}
		dispatcher = worker.NewDispatcher(notifications.NewSender(cfg.WebhookURL, cfg.WebhookSecret), worker.DefaultQueueSize, log)
		dispatcher.Start(ctx)
		notifier = dispatcher
	}

	// 5. Setup Fiber
	app := handler.NewApp(handler.Deps{
		Ledger:        store,
		SeedAccountID: seedID,
		Notifier:      notifier,
		Log:           log,
		CORSOrigins:   cfg.CORSOrigins,
		WebAPIURL:     cfg.WebAPIURL,
	})

	go func() {
		log.Info("server starting",
			zap.String("env", cfg.Env),
			zap.String("port", cfg.Port),
			zap.String("storage", cfg.StorageBackend()),
			zap.String("seed_account", seedID.String()),
		)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("server stopped listening", zap.Error(err))
			stop()
		}
	}()

	// Block until Ctrl+C / docker stop
	<-ctx.Done()
	log.Info("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}

	if dispatcher != nil {
		<-dispatcher.Done()
	}

	if err := store.Close(); err != nil {
		log.Error("closing ledger store failed", zap.Error(err))
	} else {
		log.Info("ledger store closed")
	}

	log.Info("server exited")
}
