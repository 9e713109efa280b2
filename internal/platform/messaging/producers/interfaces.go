package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// MessagePublisher publishes already encoded messages to a primary topic
type MessagePublisher interface {
	Publish(ctx context.Context, key string, value []byte, headers ...kafka.Header) error
	Close() error
}

// DeadLetterPublisher handles publishing messages to a Dead Letter Queue
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// TopicAdmin is the part of *kafka.Conn used to check and create topics
type TopicAdmin interface {
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	CreateTopics(topics ...kafka.TopicConfig) error
}
