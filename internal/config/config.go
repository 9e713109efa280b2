// Package config holds the runtime settings of the ledger binaries. Values come from
// defaults, an optional .env file and the environment, and are validated as a whole before
// any component is built.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/simple-banking-ledger/internal/domain/account"
)

// Config is the complete configuration shared by the ledger API and the history projector.
// Each binary reads only the sections it needs, but every section is validated.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Kafka       KafkaConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Outbox      OutboxConfig
	WorkerPool  WorkerPoolConfig
	Ledger      LedgerConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Brokers           string // Comma separated broker list
	LedgerTopic       string // Topic the outbox relay publishes ledger events to
	NumPartitions     int
	ReplicationFactor int
	ConsumerGroup     string // Group of the history projector
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string
}

// PostgresConfig contains PostgreSQL configuration for the journal
type PostgresConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
}

// MongoDBConfig contains MongoDB configuration for the history projection
type MongoDBConfig struct {
	URI               string
	Database          string
	HistoryCollection string
	Timeout           time.Duration
	MaxPoolSize       uint64
	MinPoolSize       uint64
	MaxConnIdleTime   time.Duration
}

// OutboxConfig controls the outbox relay
type OutboxConfig struct {
	PollingInterval  time.Duration
	BatchSize        int
	MaxRetryAttempts int // Attempts before a message is parked as FAILED_TO_PUBLISH
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int
}

// LedgerConfig controls the in-process ledger engine
type LedgerConfig struct {
	JournalEnabled     bool   // Persist every mutation to PostgreSQL and restore on start
	DefaultAccountType string // Used when an account is opened without a type
	DefaultPageSize    int    // History page size when the client does not ask for one
	MaxPageSize        int
}

// validate checks every section and reports all problems at once
func (c *Config) validate() error {
	var problems []string
	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	check(c.Server.Port > 0, "SERVER_PORT must be greater than 0")
	check(c.Server.ShutdownTimeout > 0, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	check(c.Server.ReadTimeout > 0, "SERVER_READ_TIMEOUT must be greater than 0")
	check(c.Server.WriteTimeout > 0, "SERVER_WRITE_TIMEOUT must be greater than 0")
	check(c.Server.IdleTimeout > 0, "SERVER_IDLE_TIMEOUT must be greater than 0")

	check(strings.TrimSpace(c.Kafka.Brokers) != "", "KAFKA_BROKERS is required")
	check(c.Kafka.LedgerTopic != "", "KAFKA_LEDGER_TOPIC is required")
	check(c.Kafka.ConsumerGroup != "", "KAFKA_CONSUMER_GROUP is required")
	check(c.Kafka.MinBytes > 0, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
	check(c.Kafka.MaxBytes >= c.Kafka.MinBytes, "KAFKA_CONSUMER_MAX_BYTES must not be less than KAFKA_CONSUMER_MIN_BYTES")
	check(c.Kafka.MaxWait > 0, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
	check(c.Kafka.DLQTopic != "", "KAFKA_DLQ_TOPIC is required")
	check(c.Kafka.DLQTopic != c.Kafka.LedgerTopic, "KAFKA_DLQ_TOPIC must differ from KAFKA_LEDGER_TOPIC")

	check(c.Postgres.URL != "", "POSTGRES_URL is required")
	check(c.Postgres.MaxConns > 0, "POSTGRES_MAX_CONNS must be greater than 0")
	check(c.Postgres.MinConns > 0, "POSTGRES_MIN_CONNS must be greater than 0")
	check(c.Postgres.MinConns <= c.Postgres.MaxConns, "POSTGRES_MIN_CONNS must not exceed POSTGRES_MAX_CONNS")
	check(c.Postgres.ConnMaxLifetime > 0, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	check(c.Postgres.ConnMaxIdleTime > 0, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")

	check(c.MongoDB.URI != "", "MONGO_URI is required")
	check(c.MongoDB.Database != "", "MONGO_DATABASE is required")
	check(c.MongoDB.HistoryCollection != "", "MONGO_HISTORY_COLLECTION is required")
	check(c.MongoDB.Timeout > 0, "MONGO_TIMEOUT must be greater than 0")
	check(c.MongoDB.MaxPoolSize > 0, "MONGO_MAX_POOL_SIZE must be greater than 0")
	check(c.MongoDB.MinPoolSize > 0, "MONGO_MIN_POOL_SIZE must be greater than 0")
	check(c.MongoDB.MaxConnIdleTime > 0, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")

	check(c.Outbox.PollingInterval > 0, "OUTBOX_POLLING_INTERVAL must be greater than 0")
	check(c.Outbox.BatchSize > 0, "OUTBOX_BATCH_SIZE must be greater than 0")
	check(c.Outbox.MaxRetryAttempts > 0, "OUTBOX_MAX_RETRY_ATTEMPTS must be greater than 0")

	check(c.WorkerPool.Size > 0, "WORKER_POOL_SIZE must be greater than 0")

	_, err := account.ParseType(c.Ledger.DefaultAccountType, account.TypeSavings)
	check(err == nil, "LEDGER_DEFAULT_ACCOUNT_TYPE must be SAVINGS or CHECKING")
	check(c.Ledger.DefaultPageSize > 0, "LEDGER_DEFAULT_PAGE_SIZE must be greater than 0")
	check(c.Ledger.MaxPageSize >= c.Ledger.DefaultPageSize, "LEDGER_MAX_PAGE_SIZE must not be less than LEDGER_DEFAULT_PAGE_SIZE")

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, ", "))
	}
	return nil
}

// AccountType returns the configured default account type
func (c LedgerConfig) AccountType() account.Type {
	t, err := account.ParseType(c.DefaultAccountType, account.TypeSavings)
	if err != nil {
		return account.TypeSavings
	}
	return t
}

// BrokerList splits the comma separated broker list
func (c KafkaConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
