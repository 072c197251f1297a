package messaging

import (
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/glue-messaging/v1/observability"
	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
	"github.com/Aleph-Alpha/glue-messaging/v1/schemastore"
)

// FXModule provides a *Codec built from a registry.Registry and, when
// available, a schemastore.Store.
//
// Usage:
//
//	app := fx.New(
//	    glue.FXModule,
//	    schemastore.FXModule,
//	    messaging.FXModule,
//	    fx.Supply(glueConfig, schemastore.Config{Path: "./schemas"}),
//	)
var FXModule = fx.Module("messaging",
	fx.Provide(NewCodecWithDI),
)

// CodecParams groups the dependencies needed to create a Codec.
type CodecParams struct {
	fx.In

	Config         Config                 `optional:"true"`
	Registry       registry.Registry
	Store          schemastore.Store      `optional:"true"`
	Logger         Logger                 `optional:"true"`
	Observer       observability.Observer `optional:"true"`
	TracerProvider trace.TracerProvider   `optional:"true"`
}

// NewCodecWithDI creates a codec and injects the optional logger and observer.
func NewCodecWithDI(params CodecParams) *Codec {
	codec := NewCodec(params.Registry, params.Store,
		WithConfig(params.Config),
		WithTracerProvider(params.TracerProvider),
	)

	if params.Logger != nil {
		codec.logger = params.Logger
	}
	if params.Observer != nil {
		codec.observer = params.Observer
	}
	return codec
}
