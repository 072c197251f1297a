package tracer

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/glue-messaging/v1/logger"
)

// FXModule provides *Tracer and its trace.TracerProvider, and shuts the
// provider down when the application stops so pending spans are flushed.
//
// Usage:
//
//	app := fx.New(
//	    tracer.FXModule,
//	    messaging.FXModule, // spans use the provided TracerProvider
//	    fx.Supply(tracer.Config{ServiceName: "orders", EnableExport: true}),
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClientWithDI,
		func(t *Tracer) trace.TracerProvider { return t.TracerProvider() },
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// TracerParams groups the dependencies needed to create a Tracer.
type TracerParams struct {
	fx.In

	Config Config
	Logger *logger.Logger `optional:"true"`
}

// NewClientWithDI creates the tracer for the fx container.
func NewClientWithDI(params TracerParams) (*Tracer, error) {
	var log Logger
	if params.Logger != nil {
		log = params.Logger
	}
	return NewClient(params.Config, log)
}

// RegisterTracerLifecycle shuts the tracer down on application stop.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tracer.Shutdown(ctx)
		},
	})
}
