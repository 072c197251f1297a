package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Default values for configuration
const (
	DefaultMinBytes       = 1
	DefaultMaxBytes       = 10e6
	DefaultMaxWait        = 500 * time.Millisecond
	DefaultCommitInterval = time.Second
	DefaultStartOffset    = kafka.FirstOffset
	DefaultPartition      = -1
	DefaultRequiredAcks   = kafka.RequireAll
	DefaultBatchSize      = 100
	DefaultBatchTimeout   = time.Second
	DefaultMaxAttempts    = 10
	DefaultWriteTimeout   = 10 * time.Second
	DefaultWorkers        = 1
)

// Config defines the Kafka producer or consumer settings.
type Config struct {
	// Brokers lists the bootstrap servers, e.g. ["localhost:9092"].
	Brokers []string `yaml:"brokers" envconfig:"KAFKA_BROKERS"`

	// Topic is the topic produced to or consumed from.
	Topic string `yaml:"topic" envconfig:"KAFKA_TOPIC"`

	// GroupID is the consumer group. Without it the consumer reads Partition directly.
	GroupID string `yaml:"group_id" envconfig:"KAFKA_GROUP_ID"`

	// IsConsumer creates a reader instead of a writer.
	IsConsumer bool `yaml:"is_consumer" envconfig:"KAFKA_IS_CONSUMER"`

	// Consumer settings
	MinBytes         int           `yaml:"min_bytes" envconfig:"KAFKA_MIN_BYTES"`
	MaxBytes         int           `yaml:"max_bytes" envconfig:"KAFKA_MAX_BYTES"`
	MaxWait          time.Duration `yaml:"max_wait" envconfig:"KAFKA_MAX_WAIT"`
	StartOffset      int64         `yaml:"start_offset" envconfig:"KAFKA_START_OFFSET"`
	Partition        int           `yaml:"partition" envconfig:"KAFKA_PARTITION"`
	EnableAutoCommit bool          `yaml:"enable_auto_commit" envconfig:"KAFKA_ENABLE_AUTO_COMMIT"`
	CommitInterval   time.Duration `yaml:"commit_interval" envconfig:"KAFKA_COMMIT_INTERVAL"`

	// Workers is the number of goroutines decoding consumed messages.
	Workers int `yaml:"workers" envconfig:"KAFKA_WORKERS"`

	// Producer settings
	RequiredAcks     kafka.RequiredAcks `yaml:"required_acks" envconfig:"KAFKA_REQUIRED_ACKS"`
	Async            bool               `yaml:"async" envconfig:"KAFKA_ASYNC"`
	BatchSize        int                `yaml:"batch_size" envconfig:"KAFKA_BATCH_SIZE"`
	BatchTimeout     time.Duration      `yaml:"batch_timeout" envconfig:"KAFKA_BATCH_TIMEOUT"`
	MaxAttempts      int                `yaml:"max_attempts" envconfig:"KAFKA_MAX_ATTEMPTS"`
	WriteTimeout     time.Duration      `yaml:"write_timeout" envconfig:"KAFKA_WRITE_TIMEOUT"`
	CompressionCodec string             `yaml:"compression_codec" envconfig:"KAFKA_COMPRESSION_CODEC"`

	TLS  TLSConfig  `yaml:"tls"`
	SASL SASLConfig `yaml:"sasl"`

	// Logger receives kafka-go's internal errors. Optional.
	Logger Logger `yaml:"-"`

	// ErrorLogger is used for kafka-go's internal errors when Logger is nil.
	ErrorLogger func(msg string, args ...interface{}) `yaml:"-"`
}

// TLSConfig configures TLS towards the brokers.
type TLSConfig struct {
	Enabled            bool   `yaml:"enabled" envconfig:"KAFKA_TLS_ENABLED"`
	CACertPath         string `yaml:"ca_cert_path" envconfig:"KAFKA_TLS_CA_CERT_PATH"`
	ClientCertPath     string `yaml:"client_cert_path" envconfig:"KAFKA_TLS_CLIENT_CERT_PATH"`
	ClientKeyPath      string `yaml:"client_key_path" envconfig:"KAFKA_TLS_CLIENT_KEY_PATH"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" envconfig:"KAFKA_TLS_INSECURE_SKIP_VERIFY"`
}

// SASLConfig configures SASL authentication.
type SASLConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"KAFKA_SASL_ENABLED"`

	// Mechanism is PLAIN, SCRAM-SHA-256 or SCRAM-SHA-512.
	Mechanism string `yaml:"mechanism" envconfig:"KAFKA_SASL_MECHANISM"`
	Username  string `yaml:"username" envconfig:"KAFKA_SASL_USERNAME"`
	Password  string `yaml:"password" envconfig:"KAFKA_SASL_PASSWORD"`
}

// Logger is the logging contract of the client. *logger.Logger satisfies it.
type Logger interface {
	Error(msg string, err error, fields ...map[string]interface{})
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

func (cfg Config) withDefaults() Config {
	if cfg.MinBytes == 0 {
		cfg.MinBytes = DefaultMinBytes
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.MaxWait == 0 {
		cfg.MaxWait = DefaultMaxWait
	}
	if cfg.CommitInterval == 0 {
		cfg.CommitInterval = DefaultCommitInterval
	}
	if cfg.StartOffset == 0 {
		cfg.StartOffset = DefaultStartOffset
	}
	if cfg.Partition == 0 {
		cfg.Partition = DefaultPartition
	}
	if cfg.RequiredAcks == 0 {
		cfg.RequiredAcks = DefaultRequiredAcks
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = DefaultBatchTimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return cfg
}
