package logger

import (
	"context"

	"go.uber.org/fx"
)

// FXModule defines the Fx module for the logger package.
// It provides *Logger built from a logger.Config and flushes buffered
// entries when the application stops.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Supply(logger.Config{Level: logger.Info, ServiceName: "orders"}),
//	)
var FXModule = fx.Module("logger",
	fx.Provide(
		NewLoggerClient,
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// RegisterLoggerLifecycle handles cleanup (sync) of the Zap logger.
func RegisterLoggerLifecycle(lc fx.Lifecycle, client *Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// stderr returns EINVAL on sync for some terminals; nothing to flush then.
			_ = client.Zap.Sync()
			return nil
		},
	})
}
