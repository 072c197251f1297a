package kafka

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/Aleph-Alpha/glue-messaging/v1/messaging"
	"github.com/Aleph-Alpha/glue-messaging/v1/observability"
)

// Codec encodes and decodes message envelopes. *messaging.Codec implements it.
type Codec interface {
	Encode(ctx context.Context, message interface{}, ref messaging.SchemaRef, opts ...messaging.EncodeOption) ([]byte, error)
	Decode(ctx context.Context, data []byte) (*messaging.DecodedMessage, error)
}

// messageWriter is the part of *kafka.Writer the client uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// messageReader is the part of *kafka.Reader the client uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaClient publishes messages encoded by the codec and consumes and
// decodes them. A client is either a producer or a consumer, depending on
// Config.IsConsumer.
type KafkaClient struct {
	cfg   Config
	codec Codec

	writer messageWriter
	reader messageReader

	logger   Logger
	observer observability.Observer

	// mu guards writer and reader against use after shutdown
	mu     sync.RWMutex
	closed bool

	shutdownSignal    chan struct{}
	closeShutdownOnce sync.Once
}

// NewClient creates the writer or reader described by cfg.
//
// Example:
//
//	client, err := kafka.NewClient(kafka.Config{
//	    Brokers: []string{"localhost:9092"},
//	    Topic:   "people",
//	}, codec)
//	if err != nil {
//	    return err
//	}
//	defer client.GracefulShutdown()
func NewClient(cfg Config, codec Codec) (*KafkaClient, error) {
	if codec == nil {
		return nil, fmt.Errorf("kafka client requires a codec")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	cfg = cfg.withDefaults()

	var tlsConfig *tls.Config
	var err error
	if cfg.TLS.Enabled {
		tlsConfig, err = createTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	var mechanism sasl.Mechanism
	if cfg.SASL.Enabled {
		mechanism, err = createSASLMechanism(cfg.SASL)
		if err != nil {
			return nil, fmt.Errorf("failed to create SASL mechanism: %w", err)
		}
	}

	k := newClient(cfg, codec)
	if cfg.IsConsumer {
		k.reader = createReader(cfg, tlsConfig, mechanism)
	} else {
		k.writer = createWriter(cfg, tlsConfig, mechanism)
	}
	return k, nil
}

func newClient(cfg Config, codec Codec) *KafkaClient {
	return &KafkaClient{
		cfg:            cfg,
		codec:          codec,
		logger:         cfg.Logger,
		shutdownSignal: make(chan struct{}),
	}
}

// WithObserver attaches an observer and returns the client for chaining.
func (k *KafkaClient) WithObserver(observer observability.Observer) *KafkaClient {
	k.observer = observer
	return k
}

// WithLogger attaches a logger and returns the client for chaining.
func (k *KafkaClient) WithLogger(logger Logger) *KafkaClient {
	k.logger = logger
	return k
}

// GracefulShutdown stops running consumers and closes the writer or reader.
// It is safe to call more than once.
func (k *KafkaClient) GracefulShutdown() {
	k.closeShutdownOnce.Do(func() {
		close(k.shutdownSignal)
	})

	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return
	}
	k.closed = true

	if k.writer != nil {
		if err := k.writer.Close(); err != nil {
			k.logError(context.Background(), "Failed to close kafka writer", err, nil)
		}
	}
	if k.reader != nil {
		if err := k.reader.Close(); err != nil {
			k.logError(context.Background(), "Failed to close kafka reader", err, nil)
		}
	}
}

// createErrorLogger routes kafka-go's internal errors to the configured logger.
func createErrorLogger(cfg Config) kafka.LoggerFunc {
	if cfg.Logger != nil {
		return kafka.LoggerFunc(func(msg string, args ...interface{}) {
			cfg.Logger.Error("Kafka internal error", nil, map[string]interface{}{
				"error": fmt.Sprintf(msg, args...),
			})
		})
	}
	if cfg.ErrorLogger != nil {
		return kafka.LoggerFunc(cfg.ErrorLogger)
	}
	return nil
}

func createWriter(cfg Config, tlsConfig *tls.Config, mechanism sasl.Mechanism) *kafka.Writer {
	writerConfig := kafka.WriterConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.MaxAttempts,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: int(cfg.RequiredAcks),
		Dialer: &kafka.Dialer{
			TLS:           tlsConfig,
			SASLMechanism: mechanism,
		},
	}
	if errorLogger := createErrorLogger(cfg); errorLogger != nil {
		writerConfig.ErrorLogger = errorLogger
	}

	if cfg.Async {
		writerConfig.Async = true
		writerConfig.BatchSize = cfg.BatchSize
		writerConfig.BatchTimeout = cfg.BatchTimeout
	}

	writerConfig.CompressionCodec = compressionCodec(cfg.CompressionCodec)

	return kafka.NewWriter(writerConfig)
}

// compressionCodec maps a codec name to kafka-go's codec; unknown names disable compression.
func compressionCodec(name string) kafka.CompressionCodec {
	switch name {
	case "gzip":
		return &compress.GzipCodec
	case "snappy":
		return &compress.SnappyCodec
	case "lz4":
		return &compress.Lz4Codec
	case "zstd":
		return &compress.ZstdCodec
	}
	return nil
}

func createReader(cfg Config, tlsConfig *tls.Config, mechanism sasl.Mechanism) *kafka.Reader {
	readerConfig := kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		MaxWait:     cfg.MaxWait,
		StartOffset: cfg.StartOffset,
		Dialer: &kafka.Dialer{
			TLS:           tlsConfig,
			SASLMechanism: mechanism,
		},
	}
	if errorLogger := createErrorLogger(cfg); errorLogger != nil {
		readerConfig.ErrorLogger = errorLogger
	}

	// A zero interval makes CommitMessages synchronous.
	if cfg.EnableAutoCommit {
		readerConfig.CommitInterval = cfg.CommitInterval
	}

	if cfg.GroupID == "" && cfg.Partition != -1 {
		readerConfig.Partition = cfg.Partition
	}

	return kafka.NewReader(readerConfig)
}

func createTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = caCertPool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

func createSASLMechanism(cfg SASLConfig) (sasl.Mechanism, error) {
	switch cfg.Mechanism {
	case "PLAIN":
		return plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.Mechanism)
	}
}
