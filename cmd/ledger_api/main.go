package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/simple-banking-ledger/internal/api_gateway"
	"github.com/simple-banking-ledger/internal/api_gateway/service"
	"github.com/simple-banking-ledger/internal/config"
	"github.com/simple-banking-ledger/internal/data/postgres"
	"github.com/simple-banking-ledger/internal/engine"
	"github.com/simple-banking-ledger/internal/logger"
	"github.com/simple-banking-ledger/internal/outbox_relay"
	"github.com/simple-banking-ledger/internal/platform/messaging/producers"
	"github.com/simple-banking-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("ledger_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Ledger API",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"journal_enabled", cfg.Ledger.JournalEnabled,
	)

	engineOpts := []engine.Option{
		engine.WithLogger(log.With("component", "ledger_engine")),
		engine.WithDefaultAccountType(cfg.Ledger.AccountType()),
	}

	var (
		postgresDB    *persistence.PostgresDB
		kafkaProducer *producers.LedgerEventProducer
		snapshot      engine.Snapshot
		wg            sync.WaitGroup
	)

	if cfg.Ledger.JournalEnabled {
		postgresDB, err = persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
		if err != nil {
			log.Error("Failed to initialize PostgreSQL", "error", err)
			os.Exit(1)
		}

		journal := postgres.NewJournalRepository(log, postgresDB)
		snapshot, err = journal.LoadSnapshot(appCtx)
		if err != nil {
			log.Error("Failed to load ledger journal", "error", err)
			os.Exit(1)
		}
		engineOpts = append(engineOpts, engine.WithJournal(journal))

		kafkaProducer, err = producers.NewLedgerEventProducer(appCtx, log, &cfg.Kafka)
		if err != nil {
			log.Error("Failed to initialize ledger event producer", "error", err)
			os.Exit(1)
		}

		outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
		publisher := outbox_relay.NewKafkaEventPublisher(outboxRepo, kafkaProducer, log.With("component", "outbox_publisher"))
		poller := outbox_relay.NewPoller(&cfg.Outbox, outboxRepo, publisher, log.With("component", "outbox_poller"))

		wg.Add(1)
		go func() {
			defer wg.Done()
			poller.Start(appCtx)
		}()
	} else {
		log.Warn("Ledger journal disabled, state will not survive a restart")
	}

	ledger := engine.New(engineOpts...)
	if err := ledger.Restore(snapshot); err != nil {
		log.Error("Journaled ledger violates ledger invariants", "error", err)
		os.Exit(1)
	}

	server := api_gateway.NewServer(log, cfg, service.NewAccountService(ledger), service.NewTransactionService(ledger))
	log.Info("REST server initialized")

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Stop taking requests first so no mutation is journaled after the pool closes.
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
		serverErr = err
	}

	cancelAppCtx()
	wg.Wait()

	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			log.Error("Error closing Kafka producer", "error", err)
		}
	}
	if postgresDB != nil {
		postgresDB.Close()
	}

	logShutdown(log, serverErr)
}

func logShutdown(log *slog.Logger, err error) {
	if err != nil {
		log.Error("Ledger API shutdown completed with errors", "error", err)
		os.Exit(1)
	}
	log.Info("Ledger API shutdown completed successfully")
}
