package kafka

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/glue-messaging/v1/messaging"
	"github.com/Aleph-Alpha/glue-messaging/v1/observability"
)

// FXModule provides a *KafkaClient that encodes and decodes through the
// *messaging.Codec in the container.
//
// Usage:
//
//	app := fx.New(
//	    messaging.FXModule,
//	    kafka.FXModule,
//	    fx.Supply(kafka.Config{Brokers: []string{"localhost:9092"}, Topic: "people"}),
//	)
var FXModule = fx.Module("kafka",
	fx.Provide(NewClientWithDI),
	fx.Invoke(RegisterKafkaLifecycle),
)

// KafkaParams groups the dependencies needed to create a Kafka client.
type KafkaParams struct {
	fx.In

	Config   Config
	Codec    *messaging.Codec
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates the client and injects the optional logger and observer.
func NewClientWithDI(params KafkaParams) (*KafkaClient, error) {
	cfg := params.Config
	if cfg.Logger == nil && params.Logger != nil {
		cfg.Logger = params.Logger
	}

	client, err := NewClient(cfg, params.Codec)
	if err != nil {
		return nil, err
	}
	if params.Observer != nil {
		client.observer = params.Observer
	}
	return client, nil
}

// RegisterKafkaLifecycle shuts the client down when the application stops.
func RegisterKafkaLifecycle(lc fx.Lifecycle, client *KafkaClient) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if client.logger != nil {
				role := "producer"
				if client.cfg.IsConsumer {
					role = "consumer"
				}
				client.logger.InfoWithContext(ctx, "Kafka "+role+" initialized", nil, map[string]interface{}{
					"topic": client.cfg.Topic,
				})
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			client.GracefulShutdown()
			return nil
		},
	})
}
