package redis

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/glue-messaging/v1/observability"
	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
)

// FXModule is an fx.Module that provides the *RedisClient and closes it when
// the application stops.
//
// Usage:
//
//	app := fx.New(
//	    redis.FXModule,
//	    redis.CacheRegistry, // optional: put Fetch results in Redis
//	    glue.FXModule,
//	    messaging.FXModule,
//	    fx.Supply(redis.Config{Host: "localhost"}),
//	)
var FXModule = fx.Module("redis",
	fx.Provide(
		NewClientWithDI,
	),
	fx.Invoke(RegisterRedisLifecycle),
)

// CacheRegistry decorates the application's registry.Registry with a
// CachingRegistry. It must be passed to fx.New directly, not nested in a
// module, so the decoration reaches every consumer.
var CacheRegistry = fx.Decorate(DecorateRegistry)

// RedisParams groups the dependencies needed to create a Redis client.
type RedisParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates the client and injects the optional logger and observer.
func NewClientWithDI(params RedisParams) (*RedisClient, error) {
	cfg := params.Config
	if cfg.Logger == nil && params.Logger != nil {
		cfg.Logger = params.Logger
	}

	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if params.Observer != nil {
		client.observer = params.Observer
	}
	return client, nil
}

// DecorateRegistryParams groups the dependencies of DecorateRegistry.
type DecorateRegistryParams struct {
	fx.In

	Registry registry.Registry
	Client   *RedisClient
}

// DecorateRegistry wraps the registry in the container with a CachingRegistry.
func DecorateRegistry(params DecorateRegistryParams) registry.Registry {
	return NewCachingRegistry(params.Registry, params.Client)
}

// RegisterRedisLifecycle pings Redis on start and closes the client on stop.
// A failed ping is only logged; Fetch falls back to the registry while Redis
// is down.
func RegisterRedisLifecycle(lc fx.Lifecycle, client *RedisClient) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx); err != nil {
				client.logWarn("Redis is not reachable, schema cache disabled until it is", err, nil)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := client.Close(); err != nil && !IsClosedError(err) {
				client.logError("Failed to close redis client", err, nil)
				return err
			}
			return nil
		},
	})
}
