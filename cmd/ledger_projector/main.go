package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/simple-banking-ledger/internal/api_gateway"
	"github.com/simple-banking-ledger/internal/api_gateway/service"
	"github.com/simple-banking-ledger/internal/config"
	"github.com/simple-banking-ledger/internal/data/mongo"
	"github.com/simple-banking-ledger/internal/logger"
	"github.com/simple-banking-ledger/internal/platform/messaging/consumers"
	"github.com/simple-banking-ledger/internal/platform/messaging/producers"
	"github.com/simple-banking-ledger/internal/platform/persistence"
	"github.com/simple-banking-ledger/internal/projector"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("ledger_projector")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Ledger Projector",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	historyRepo := mongo.NewHistoryRepository(log.With("component", "history_repository"), mongoDB.Collection(cfg.MongoDB.HistoryCollection))
	if err := historyRepo.EnsureIndexes(appCtx); err != nil {
		log.Error("Failed to create history indexes", "error", err)
		os.Exit(1)
	}

	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)

	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	var dlq producers.DeadLetterPublisher
	if dlqProducer != nil {
		dlq = dlqProducer
	}

	projectionService, workerPool := projector.CreateProjectionService(historyRepo, log, cfg)
	eventHandler := projector.NewEventHandler(log.With("component", "event_handler"), projectionService, dlq)

	if err := kafkaConsumer.Subscribe(appCtx, eventHandler.HandleMessage); err != nil {
		log.Error("Failed to subscribe to ledger events", "error", err)
		os.Exit(1)
	}

	historyServer := api_gateway.NewHistoryServer(log.With("component", "history_api"), cfg, service.NewHistoryService(historyRepo))
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- historyServer.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-serverErr:
		log.Error("History API stopped unexpectedly", "error", err)
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	failed := false
	if err := historyServer.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping history API", "error", err)
		failed = true
	}

	log.Info("Waiting for consumer to stop...")
	select {
	case <-kafkaConsumer.Done():
		log.Info("Consumer stopped")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	if workerPool != nil {
		workerPool.Shutdown()
	}

	if dlqProducer != nil {
		if err := dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
			failed = true
		}
	}
	if err := kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
		failed = true
	}
	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
		failed = true
	}

	if failed {
		log.Error("Ledger Projector shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Ledger Projector shutdown completed successfully")
}
