package glue

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awsglue "github.com/aws/aws-sdk-go-v2/service/glue"

	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
)

// StaticRegistry is a read-only Glue registry that builds its own client from
// raw credentials. It resolves schemas by id and by definition; Register and
// Check return registry.ErrUnsupportedOperation.
type StaticRegistry struct {
	reader *Registry
}

var _ registry.Registry = (*StaticRegistry)(nil)

// NewStaticRegistry creates a StaticRegistry from an access key pair.
func NewStaticRegistry(ctx context.Context, cfg StaticConfig) (*StaticRegistry, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("glue access key id and secret access key are required")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		),
	}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return newStaticRegistry(cfg.Config, awsglue.NewFromConfig(awsCfg)), nil
}

func newStaticRegistry(cfg Config, client API) *StaticRegistry {
	return &StaticRegistry{reader: NewRegistry(cfg, client)}
}

// Fetch retrieves the definition of schema version id.
func (s *StaticRegistry) Fetch(ctx context.Context, id registry.SchemaID) (string, error) {
	return s.reader.Fetch(ctx, id)
}

// FetchByDefinition returns the id of the version of name whose definition is definition.
func (s *StaticRegistry) FetchByDefinition(ctx context.Context, name, definition string) (registry.SchemaID, error) {
	return s.reader.FetchByDefinition(ctx, name, definition)
}

// Register is not supported by the static-credentials client.
func (s *StaticRegistry) Register(context.Context, string, string) (registry.SchemaID, error) {
	return registry.NilSchemaID, fmt.Errorf("glue static registry: register: %w", registry.ErrUnsupportedOperation)
}

// Check is not supported by the static-credentials client.
func (s *StaticRegistry) Check(context.Context, string, string) (*registry.Metadata, error) {
	return nil, fmt.Errorf("glue static registry: check: %w", registry.ErrUnsupportedOperation)
}
