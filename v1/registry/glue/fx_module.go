package glue

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	awsglue "github.com/aws/aws-sdk-go-v2/service/glue"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
)

// FXModule is an fx.Module that provides the Glue schema registry client as
// registry.Registry. AWS credentials come from the default chain
// (environment, shared config, instance role).
//
// Usage:
//
//	app := fx.New(
//	    glue.FXModule,
//	    fx.Supply(glue.Config{RegistryName: "events", Region: "eu-central-1"}),
//	)
var FXModule = fx.Module("glue_registry",
	fx.Provide(
		NewRegistryWithDI,
	),
	fx.Invoke(RegisterGlueRegistryLifecycle),
)

// GlueRegistryParams groups the dependencies needed to create a Glue registry client.
type GlueRegistryParams struct {
	fx.In

	Config Config
}

// NewRegistryWithDI creates the Glue registry client for the fx container.
func NewRegistryWithDI(params GlueRegistryParams) (registry.Registry, error) {
	var opts []func(*config.LoadOptions) error
	if params.Config.Region != "" {
		opts = append(opts, config.WithRegion(params.Config.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return NewRegistry(params.Config, awsglue.NewFromConfig(awsCfg)), nil
}

// GlueRegistryLifecycleParams groups the dependencies for lifecycle logging.
type GlueRegistryLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    Config
	Logger    Logger `optional:"true"`
}

// RegisterGlueRegistryLifecycle logs registry client start and stop. The AWS
// client holds no resources that need closing.
func RegisterGlueRegistryLifecycle(params GlueRegistryLifecycleParams) {
	if params.Logger == nil {
		return
	}
	fields := map[string]interface{}{"registry_name": params.Config.RegistryName}
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			params.Logger.Info("Glue schema registry client initialized", nil, fields)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Glue schema registry client shutdown", nil, fields)
			return nil
		},
	})
}

// Logger is the logging subset used by this package; *logger.Logger satisfies it.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
}
