package rabbit

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/glue-messaging/v1/messaging"
	"github.com/Aleph-Alpha/glue-messaging/v1/observability"
)

// FXModule provides a *RabbitClient, and the Client interface, that encode
// and decode through the *messaging.Codec in the container. The connection
// is monitored for the lifetime of the application.
//
// Usage:
//
//	app := fx.New(
//	    messaging.FXModule,
//	    rabbit.FXModule,
//	    fx.Supply(rabbitConfig),
//	)
var FXModule = fx.Module("rabbit",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			func(r *RabbitClient) Client { return r },
			fx.As(new(Client)),
		),
	),
	fx.Invoke(RegisterRabbitLifecycle),
)

// RabbitParams groups the dependencies needed to create a Rabbit client.
type RabbitParams struct {
	fx.In

	Config   Config
	Codec    *messaging.Codec
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates the client and injects the optional logger and observer.
func NewClientWithDI(params RabbitParams) (*RabbitClient, error) {
	client, err := NewClientWithLogger(params.Config, params.Codec, params.Logger)
	if err != nil {
		return nil, err
	}
	if params.Observer != nil {
		client.observer = params.Observer
	}
	return client, nil
}

// RabbitLifecycleParams groups the dependencies needed for RabbitMQ lifecycle management.
type RabbitLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *RabbitClient
}

// RegisterRabbitLifecycle starts RetryConnection when the application starts
// and shuts the client down when it stops.
func RegisterRabbitLifecycle(params RabbitLifecycleParams) {
	wg := &sync.WaitGroup{}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				params.Client.RetryConnection()
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Client.GracefulShutdown()
			wg.Wait()
			return nil
		},
	})
}
