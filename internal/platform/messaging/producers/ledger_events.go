package producers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/simple-banking-ledger/internal/config"
)

// LedgerEventProducer publishes journaled ledger events for the outbox relay. Writes are
// synchronous so the relay only marks a message processed once the broker has acknowledged it.
type LedgerEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

var _ MessagePublisher = (*LedgerEventProducer)(nil)

// NewLedgerEventProducer ensures the ledger topic exists and opens a writer on it
func NewLedgerEventProducer(_ context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*LedgerEventProducer, error) {
	if cfg.LedgerTopic == "" {
		return nil, fmt.Errorf("kafka ledger topic is not configured")
	}

	brokers := cfg.BrokerList()
	if err := dialAndEnsureTopic(brokers, cfg.LedgerTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure ledger topic %s exists: %w", cfg.LedgerTopic, err)
	}

	writer := &kafka.Writer{
		Addr: kafka.TCP(brokers...),
		// Hashing on the account id keeps each account's events on one partition, in order.
		Balancer:     &kafka.Hash{},
		Topic:        cfg.LedgerTopic,
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &LedgerEventProducer{
		logger: logger.With("component", "ledger_event_producer"),
		writer: writer,
		topic:  cfg.LedgerTopic,
	}, nil
}

// Publish writes one message and waits for the acknowledgement
func (p *LedgerEventProducer) Publish(ctx context.Context, key string, value []byte, headers ...kafka.Header) error {
	msg := kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: headers,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish ledger event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published ledger event", "topic", p.topic, "key", key)
	return nil
}

// Close flushes and closes the writer
func (p *LedgerEventProducer) Close() error {
	p.logger.Info("Closing ledger event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
