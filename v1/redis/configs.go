package redis

import "time"

// Default values for configuration
const (
	DefaultHost            = "localhost"
	DefaultPort            = 6379
	DefaultKeyPrefix       = "glue-messaging:"
	DefaultMaxRetries      = 3
	DefaultMinRetryBackoff = 8 * time.Millisecond
	DefaultMaxRetryBackoff = 512 * time.Millisecond
	DefaultDialTimeout     = 5 * time.Second
	DefaultReadTimeout     = 3 * time.Second
	DefaultIdleTimeout     = 5 * time.Minute
)

// Config defines the connection to a single Redis node and how schema
// definitions are stored in it.
type Config struct {
	Host     string `yaml:"host" envconfig:"REDIS_HOST"`
	Port     int    `yaml:"port" envconfig:"REDIS_PORT"`
	Username string `yaml:"username" envconfig:"REDIS_USERNAME"`
	Password string `yaml:"password" envconfig:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" envconfig:"REDIS_DB"`

	// KeyPrefix is prepended to every key written by the client.
	KeyPrefix string `yaml:"key_prefix" envconfig:"REDIS_KEY_PREFIX"`

	// TTL bounds how long a cached definition lives. Schema ids are
	// immutable, so zero (no expiry) is the default.
	TTL time.Duration `yaml:"ttl" envconfig:"REDIS_TTL"`

	PoolSize        int           `yaml:"pool_size" envconfig:"REDIS_POOL_SIZE"`
	MinIdleConns    int           `yaml:"min_idle_conns" envconfig:"REDIS_MIN_IDLE_CONNS"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"REDIS_IDLE_TIMEOUT"`
	MaxRetries      int           `yaml:"max_retries" envconfig:"REDIS_MAX_RETRIES"`
	MinRetryBackoff time.Duration `yaml:"min_retry_backoff" envconfig:"REDIS_MIN_RETRY_BACKOFF"`
	MaxRetryBackoff time.Duration `yaml:"max_retry_backoff" envconfig:"REDIS_MAX_RETRY_BACKOFF"`
	DialTimeout     time.Duration `yaml:"dial_timeout" envconfig:"REDIS_DIAL_TIMEOUT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"REDIS_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"REDIS_WRITE_TIMEOUT"`

	TLS TLSConfig `yaml:"tls"`

	// Logger is optional; *logger.Logger satisfies it.
	Logger Logger `yaml:"-" ignored:"true"`
}

// TLSConfig contains TLS/SSL configuration.
type TLSConfig struct {
	Enabled            bool   `yaml:"enabled" envconfig:"REDIS_TLS_ENABLED"`
	CACertPath         string `yaml:"ca_cert_path" envconfig:"REDIS_TLS_CA_CERT_PATH"`
	ClientCertPath     string `yaml:"client_cert_path" envconfig:"REDIS_TLS_CLIENT_CERT_PATH"`
	ClientKeyPath      string `yaml:"client_key_path" envconfig:"REDIS_TLS_CLIENT_KEY_PATH"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" envconfig:"REDIS_TLS_INSECURE_SKIP_VERIFY"`
	ServerName         string `yaml:"server_name" envconfig:"REDIS_TLS_SERVER_NAME"`
}

// Logger is an interface that matches *logger.Logger.
type Logger interface {
	Error(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

func (cfg Config) withDefaults() Config {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.MinRetryBackoff == 0 {
		cfg.MinRetryBackoff = DefaultMinRetryBackoff
	}
	if cfg.MaxRetryBackoff == 0 {
		cfg.MaxRetryBackoff = DefaultMaxRetryBackoff
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	return cfg
}
