package redis

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Aleph-Alpha/glue-messaging/v1/observability"
	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
)

// RedisClient stores schema definitions in Redis, keyed by schema id.
type RedisClient struct {
	client   redis.UniversalClient
	cfg      Config
	logger   Logger
	observer observability.Observer
}

// NewClient creates a client for the node described by cfg. The connection
// is established lazily; use Ping to verify it.
//
// Example:
//
//	client, err := redis.NewClient(redis.Config{Host: "localhost", Port: 6379})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
func NewClient(cfg Config) (*RedisClient, error) {
	cfg = cfg.withDefaults()

	var tlsConfig *tls.Config
	var err error
	if cfg.TLS.Enabled {
		tlsConfig, err = createTLSConfig(cfg.TLS, cfg.Host)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Username:        cfg.Username,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		ConnMaxIdleTime: cfg.IdleTimeout,
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		MaxRetryBackoff: cfg.MaxRetryBackoff,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		TLSConfig:       tlsConfig,
	})

	r := NewClientWithUniversal(client, cfg)
	r.logInfo("Redis client initialized", map[string]interface{}{
		"addr": fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	})
	return r, nil
}

// NewClientWithUniversal wraps an existing go-redis client, for cluster or
// sentinel deployments.
func NewClientWithUniversal(client redis.UniversalClient, cfg Config) *RedisClient {
	cfg = cfg.withDefaults()
	return &RedisClient{
		client: client,
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// WithObserver attaches an observer and returns the client for chaining.
func (r *RedisClient) WithObserver(observer observability.Observer) *RedisClient {
	r.observer = observer
	return r
}

// Client returns the underlying go-redis client.
func (r *RedisClient) Client() redis.UniversalClient {
	return r.client
}

// Ping checks the connection.
func (r *RedisClient) Ping(ctx context.Context) error {
	return translateError(r.client.Ping(ctx).Err())
}

// Close closes the connection pool.
func (r *RedisClient) Close() error {
	return translateError(r.client.Close())
}

// GetDefinition returns the definition cached under id, or Nil.
func (r *RedisClient) GetDefinition(ctx context.Context, id registry.SchemaID) (string, error) {
	start := time.Now()
	key := r.definitionKey(id)

	def, err := r.client.Get(ctx, key).Result()
	err = translateError(err)
	r.observeOperation("get", key, "", time.Since(start), ignoreMiss(err), int64(len(def)), map[string]interface{}{
		"hit": err == nil,
	})
	if err != nil {
		return "", err
	}
	return def, nil
}

// SetDefinition caches definition under id for Config.TTL.
func (r *RedisClient) SetDefinition(ctx context.Context, id registry.SchemaID, definition string) error {
	start := time.Now()
	key := r.definitionKey(id)

	err := translateError(r.client.Set(ctx, key, definition, r.cfg.TTL).Err())
	r.observeOperation("set", key, "", time.Since(start), err, int64(len(definition)), nil)
	return err
}

func (r *RedisClient) definitionKey(id registry.SchemaID) string {
	return r.cfg.KeyPrefix + "schema:" + id.String()
}

func ignoreMiss(err error) error {
	if IsNilError(err) {
		return nil
	}
	return err
}

func createTLSConfig(cfg TLSConfig, defaultServerName string) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.ServerName != "" {
		tlsConfig.ServerName = cfg.ServerName
	} else if defaultServerName != "" {
		tlsConfig.ServerName = defaultServerName
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
