package rabbit

import "context"

// Default values for configuration
const (
	DefaultContentType      = "application/vnd.glue-messaging.avro"
	DefaultDelayToReconnect = 1000 // milliseconds
	DefaultExchangeType     = "direct"
)

// Config defines the RabbitMQ connection and topology settings.
type Config struct {
	Connection Connection `yaml:"connection"`
	Channel    Channel    `yaml:"channel"`
	DeadLetter DeadLetter `yaml:"dead_letter"`
}

// Connection holds the broker address, credentials and TLS settings.
type Connection struct {
	Host     string `yaml:"host" envconfig:"RABBITMQ_HOST"`
	Port     uint   `yaml:"port" envconfig:"RABBITMQ_PORT"`
	User     string `yaml:"user" envconfig:"RABBITMQ_USER"`
	Password string `yaml:"password" envconfig:"RABBITMQ_PASSWORD"`

	IsSSLEnabled bool `yaml:"is_ssl_enabled" envconfig:"RABBITMQ_IS_SSL_ENABLED"`

	// UseCert enables client certificate authentication; requires IsSSLEnabled.
	UseCert        bool   `yaml:"use_cert" envconfig:"RABBITMQ_USE_CERT"`
	CACertPath     string `yaml:"ca_cert_path" envconfig:"RABBITMQ_CA_CERT_PATH"`
	ClientCertPath string `yaml:"client_cert_path" envconfig:"RABBITMQ_CLIENT_CERT_PATH"`
	ClientKeyPath  string `yaml:"client_key_path" envconfig:"RABBITMQ_CLIENT_KEY_PATH"`
	ServerName     string `yaml:"server_name" envconfig:"RABBITMQ_SERVER_NAME"`
}

// Channel describes the exchange and queue used for publishing and consuming.
type Channel struct {
	ExchangeName string `yaml:"exchange_name" envconfig:"RABBITMQ_EXCHANGE_NAME"`
	ExchangeType string `yaml:"exchange_type" envconfig:"RABBITMQ_EXCHANGE_TYPE"`
	RoutingKey   string `yaml:"routing_key" envconfig:"RABBITMQ_ROUTING_KEY"`
	QueueName    string `yaml:"queue_name" envconfig:"RABBITMQ_QUEUE_NAME"`

	// DelayToReconnect is the pause between reconnection attempts in milliseconds.
	DelayToReconnect int `yaml:"delay_to_reconnect" envconfig:"RABBITMQ_DELAY_TO_RECONNECT"`

	PrefetchCount int `yaml:"prefetch_count" envconfig:"RABBITMQ_PREFETCH_COUNT"`

	// IsConsumer declares the exchange, queue and bindings on connect.
	IsConsumer bool `yaml:"is_consumer" envconfig:"RABBITMQ_IS_CONSUMER"`

	ContentType string `yaml:"content_type" envconfig:"RABBITMQ_CONTENT_TYPE"`
}

// DeadLetter configures the queue rejected and expired messages are routed to.
// It is set up only when ExchangeName is set and Ttl is positive.
type DeadLetter struct {
	ExchangeName string `yaml:"exchange_name" envconfig:"RABBITMQ_DEAD_LETTER_EXCHANGE"`
	QueueName    string `yaml:"queue_name" envconfig:"RABBITMQ_DEAD_LETTER_QUEUE"`
	RoutingKey   string `yaml:"routing_key" envconfig:"RABBITMQ_DEAD_LETTER_ROUTING_KEY"`

	// Ttl is the message time-to-live of the main queue in seconds.
	Ttl int `yaml:"ttl" envconfig:"RABBITMQ_DEAD_LETTER_TTL"`
}

// Logger is the logging contract of the client. *logger.Logger satisfies it.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

func (cfg Config) withDefaults() Config {
	if cfg.Channel.ContentType == "" {
		cfg.Channel.ContentType = DefaultContentType
	}
	if cfg.Channel.DelayToReconnect <= 0 {
		cfg.Channel.DelayToReconnect = DefaultDelayToReconnect
	}
	if cfg.Channel.ExchangeType == "" {
		cfg.Channel.ExchangeType = DefaultExchangeType
	}
	return cfg
}
