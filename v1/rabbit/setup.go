package rabbit

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Aleph-Alpha/glue-messaging/v1/messaging"
	"github.com/Aleph-Alpha/glue-messaging/v1/observability"
)

// Codec is the part of *messaging.Codec the client uses.
type Codec interface {
	Encode(ctx context.Context, message interface{}, ref messaging.SchemaRef, opts ...messaging.EncodeOption) ([]byte, error)
	Decode(ctx context.Context, data []byte) (*messaging.DecodedMessage, error)
}

// confirmation is a pending publisher confirm.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// channel is the part of an AMQP channel the client uses.
type channel interface {
	publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)
	consume(queue string) (<-chan amqp.Delivery, error)
	Close() error
}

type amqpChannel struct {
	ch *amqp.Channel
}

func (a amqpChannel) publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
	dc, err := a.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	if err != nil || dc == nil {
		return nil, err
	}
	return dc, nil
}

func (a amqpChannel) consume(queue string) (<-chan amqp.Delivery, error) {
	return a.ch.Consume(
		queue,
		"",    // Consumer tag, generated by the server
		false, // AutoAck
		false, // Exclusive
		false, // NoLocal
		false, // NoWait
		nil,   // Arguments
	)
}

func (a amqpChannel) Close() error {
	return a.ch.Close()
}

// RabbitClient publishes and consumes envelope-encoded messages over RabbitMQ.
// Publisher confirms are always enabled on its channel.
type RabbitClient struct {
	cfg   Config
	codec Codec

	conn    *amqp.Connection
	channel channel

	logger   Logger
	observer observability.Observer

	// mu protects conn, channel and closed
	mu     sync.RWMutex
	closed bool

	// shutdownSignal is closed when the client is being shut down
	shutdownSignal    chan struct{}
	closeShutdownOnce sync.Once
}

// NewClient connects to RabbitMQ, opens a confirming channel and, for
// consumers, declares the exchange, queue and dead letter topology.
//
// Example:
//
//	client, err := rabbit.NewClient(cfg, codec)
//	if err != nil {
//		return err
//	}
//	defer client.GracefulShutdown()
func NewClient(cfg Config, codec Codec) (*RabbitClient, error) {
	return NewClientWithLogger(cfg, codec, nil)
}

// NewClientWithLogger is NewClient with connection events logged to logger.
func NewClientWithLogger(cfg Config, codec Codec, logger Logger) (*RabbitClient, error) {
	if codec == nil {
		return nil, fmt.Errorf("rabbit client requires a codec")
	}
	cfg = cfg.withDefaults()

	rb := newClient(cfg, codec, nil)
	rb.logger = logger

	conn, err := rb.newConnection()
	if err != nil {
		rb.logError(context.Background(), "Error in connecting to rabbit", err, nil)
		return nil, err
	}

	ch, err := connectToChannel(conn, cfg)
	if err != nil {
		rb.logError(context.Background(), "Error in declaring channel", err, nil)
		_ = conn.Close()
		return nil, TranslateError(err)
	}

	rb.conn = conn
	rb.channel = amqpChannel{ch: ch}
	return rb, nil
}

func newClient(cfg Config, codec Codec, ch channel) *RabbitClient {
	return &RabbitClient{
		cfg:            cfg,
		codec:          codec,
		channel:        ch,
		shutdownSignal: make(chan struct{}),
	}
}

// WithObserver attaches an observer and returns the client for chaining.
func (rb *RabbitClient) WithObserver(observer observability.Observer) *RabbitClient {
	rb.observer = observer
	return rb
}

// WithLogger attaches a logger and returns the client for chaining.
func (rb *RabbitClient) WithLogger(logger Logger) *RabbitClient {
	rb.logger = logger
	return rb
}

// connectToChannel opens a channel in confirm mode. For consumers it also
// declares the durable exchange and queue, binds them, sets up dead
// lettering when configured and applies the prefetch count.
func connectToChannel(conn *amqp.Connection, cfg Config) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	if err = ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	if !cfg.Channel.IsConsumer {
		return ch, nil
	}

	err = ch.ExchangeDeclare(
		cfg.Channel.ExchangeName,
		cfg.Channel.ExchangeType,
		true,  // Durable
		false, // AutoDelete
		false, // Internal
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	queueArgs := amqp.Table{}
	if cfg.DeadLetter.ExchangeName != "" && cfg.DeadLetter.Ttl > 0 {
		if err = declareDeadLetter(ch, cfg.DeadLetter); err != nil {
			return nil, err
		}
		queueArgs = amqp.Table{
			"x-dead-letter-exchange":    cfg.DeadLetter.ExchangeName,
			"x-dead-letter-routing-key": cfg.DeadLetter.RoutingKey,
			"x-message-ttl":             cfg.DeadLetter.Ttl * 1000,
		}
	}

	_, err = ch.QueueDeclare(
		cfg.Channel.QueueName,
		true,  // Durable
		false, // AutoDelete
		false, // Exclusive
		false, // NoWait
		queueArgs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = ch.QueueBind(cfg.Channel.QueueName, cfg.Channel.RoutingKey, cfg.Channel.ExchangeName, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	if cfg.Channel.PrefetchCount > 0 {
		if err = ch.Qos(cfg.Channel.PrefetchCount, 0, false); err != nil {
			return nil, fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	return ch, nil
}

func declareDeadLetter(ch *amqp.Channel, dl DeadLetter) error {
	err := ch.ExchangeDeclare(dl.ExchangeName, "direct", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare dead letter exchange: %w", err)
	}

	_, err = ch.QueueDeclare(dl.QueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare dead letter queue: %w", err)
	}

	if err = ch.QueueBind(dl.QueueName, dl.RoutingKey, dl.ExchangeName, false, nil); err != nil {
		return fmt.Errorf("failed to bind dead letter queue: %w", err)
	}
	return nil
}

// RetryConnection watches the connection and re-establishes it, together
// with the channel topology, whenever the broker closes it. It returns after
// GracefulShutdown and is meant to run in its own goroutine.
func (rb *RabbitClient) RetryConnection() {
	delay := time.Duration(rb.cfg.Channel.DelayToReconnect) * time.Millisecond

outerLoop:
	for {
		rb.mu.RLock()
		conn := rb.conn
		rb.mu.RUnlock()
		if conn == nil {
			return
		}

		errChan := make(chan *amqp.Error, 1)
		conn.NotifyClose(errChan)

		select {
		case <-rb.shutdownSignal:
			rb.logInfo(context.Background(), "Stopping RetryConnection loop due to shutdown signal", nil)
			return

		case amqpErr := <-errChan:
			if rb.isClosed() {
				return
			}
			var cause error
			if amqpErr != nil {
				cause = amqpErr
			}
			rb.logWarn(context.Background(), "RabbitMQ connection closed, retrying", cause, nil)
			for {
				select {
				case <-rb.shutdownSignal:
					rb.logInfo(context.Background(), "Stopping RetryConnection loop due to shutdown signal", nil)
					return
				default:
				}

				newConn, err := rb.newConnection()
				if err != nil {
					rb.logError(context.Background(), "RabbitMQ reconnection failed", err, nil)
					time.Sleep(delay)
					continue
				}

				ch, err := connectToChannel(newConn, rb.cfg)
				if err != nil {
					rb.logError(context.Background(), "Failed to re-establish RabbitMQ channel", err, nil)
					_ = newConn.Close()
					time.Sleep(delay)
					continue
				}

				rb.mu.Lock()
				if rb.channel != nil {
					_ = rb.channel.Close()
				}
				rb.conn = newConn
				rb.channel = amqpChannel{ch: ch}
				rb.mu.Unlock()

				rb.logInfo(context.Background(), "Successfully reconnected to RabbitMQ", nil)
				continue outerLoop
			}
		}
	}
}

// newConnection dials the broker. Three modes are supported: TLS with a
// client certificate, TLS with server authentication only, and plain AMQP.
// All connections use a 2-second heartbeat.
func (rb *RabbitClient) newConnection() (*amqp.Connection, error) {
	c := rb.cfg.Connection
	amqpCfg := amqp.Config{Heartbeat: 2 * time.Second}

	scheme := "amqp"
	if c.IsSSLEnabled {
		scheme = "amqps"
		if c.UseCert {
			tlsConfig, err := createTLSConfig(c)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
			}
			amqpCfg.TLSClientConfig = tlsConfig
		}
	}

	hostURL := fmt.Sprintf("%s://%v:%v@%v:%v", scheme, c.User, c.Password, c.Host, c.Port)
	conn, err := amqp.DialConfig(hostURL, amqpCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	rb.logInfo(context.Background(), "Connected to Rabbit", map[string]interface{}{
		"host": c.Host,
		"port": c.Port,
	})
	return conn, nil
}

func createTLSConfig(c Connection) (*tls.Config, error) {
	caCert, err := os.ReadFile(c.CACertPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA cert: %w", err)
	}
	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("no certificates found in %s", c.CACertPath)
	}

	cert, err := tls.LoadX509KeyPair(c.ClientCertPath, c.ClientKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load client cert: %w", err)
	}

	return &tls.Config{
		RootCAs:      caCertPool,
		Certificates: []tls.Certificate{cert},
		ServerName:   c.ServerName,
	}, nil
}

// GracefulShutdown stops RetryConnection and running consumers, then closes
// the channel and the connection. It is safe to call more than once.
func (rb *RabbitClient) GracefulShutdown() {
	rb.closeShutdownOnce.Do(func() {
		close(rb.shutdownSignal)
	})

	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.closed {
		return
	}
	rb.closed = true

	rb.logInfo(context.Background(), "Shutting down RabbitMQ client", nil)

	if rb.channel != nil {
		if err := rb.channel.Close(); err != nil {
			rb.logWarn(context.Background(), "Failed to close rabbit channel", err, nil)
		}
	}
	if rb.conn != nil && !rb.conn.IsClosed() {
		if err := rb.conn.Close(); err != nil {
			rb.logWarn(context.Background(), "Failed to close rabbit connection", err, nil)
		}
	}
}

func (rb *RabbitClient) isClosed() bool {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.closed
}

func (rb *RabbitClient) currentChannel() (channel, error) {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	if rb.closed {
		return nil, ErrShutdown
	}
	if rb.channel == nil {
		return nil, ErrChannelClosed
	}
	return rb.channel, nil
}
