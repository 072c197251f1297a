package glue

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsglue "github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/glue/types"

	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
)

// API is the subset of the AWS Glue client used by the registry.
// *awsglue.Client satisfies it.
type API interface {
	GetSchemaVersion(ctx context.Context, params *awsglue.GetSchemaVersionInput, optFns ...func(*awsglue.Options)) (*awsglue.GetSchemaVersionOutput, error)
	GetSchemaByDefinition(ctx context.Context, params *awsglue.GetSchemaByDefinitionInput, optFns ...func(*awsglue.Options)) (*awsglue.GetSchemaByDefinitionOutput, error)
	CreateSchema(ctx context.Context, params *awsglue.CreateSchemaInput, optFns ...func(*awsglue.Options)) (*awsglue.CreateSchemaOutput, error)
	GetSchema(ctx context.Context, params *awsglue.GetSchemaInput, optFns ...func(*awsglue.Options)) (*awsglue.GetSchemaOutput, error)
}

// Registry is the Glue implementation of registry.Registry built around a
// caller-supplied API client. It supports every operation, including
// Register and Check.
type Registry struct {
	cfg    Config
	client API
}

var _ registry.Registry = (*Registry)(nil)

// NewRegistry creates a registry client on top of an existing Glue client.
//
// Example:
//
//	awsCfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil {
//	    return err
//	}
//	reg := glue.NewRegistry(glue.Config{RegistryName: "events"}, awsglue.NewFromConfig(awsCfg))
func NewRegistry(cfg Config, client API) *Registry {
	return &Registry{
		cfg:    cfg.withDefaults(),
		client: client,
	}
}

// Fetch retrieves the definition of schema version id.
func (r *Registry) Fetch(ctx context.Context, id registry.SchemaID) (string, error) {
	resp, err := r.client.GetSchemaVersion(ctx, &awsglue.GetSchemaVersionInput{
		SchemaVersionId: aws.String(id.String()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch schema version %s: %w", id, mapError(err))
	}

	if resp.SchemaDefinition == nil {
		return "", fmt.Errorf("schema version %s has no definition", id)
	}
	return *resp.SchemaDefinition, nil
}

// FetchByDefinition returns the id of the version of name whose definition is definition.
func (r *Registry) FetchByDefinition(ctx context.Context, name, definition string) (registry.SchemaID, error) {
	resp, err := r.client.GetSchemaByDefinition(ctx, &awsglue.GetSchemaByDefinitionInput{
		SchemaId:         r.schemaID(name),
		SchemaDefinition: aws.String(definition),
	})
	if err != nil {
		return registry.NilSchemaID, fmt.Errorf("failed to fetch schema %q by definition: %w", name, mapError(err))
	}

	return registry.ParseSchemaID(aws.ToString(resp.SchemaVersionId))
}

// Register creates schema name in the registry and returns the id of its first version.
func (r *Registry) Register(ctx context.Context, name, definition string) (registry.SchemaID, error) {
	input := &awsglue.CreateSchemaInput{
		SchemaName:       aws.String(name),
		DataFormat:       types.DataFormat(r.cfg.DataFormat),
		Compatibility:    types.Compatibility(r.cfg.Compatibility),
		SchemaDefinition: aws.String(definition),
	}
	if r.cfg.RegistryName != "" {
		input.RegistryId = &types.RegistryId{RegistryName: aws.String(r.cfg.RegistryName)}
	}

	resp, err := r.client.CreateSchema(ctx, input)
	if err != nil {
		return registry.NilSchemaID, fmt.Errorf("failed to register schema %q: %w", name, mapError(err))
	}

	return registry.ParseSchemaID(aws.ToString(resp.SchemaVersionId))
}

// Check returns metadata about schema name, or nil if it does not exist.
func (r *Registry) Check(ctx context.Context, name, _ string) (*registry.Metadata, error) {
	resp, err := r.client.GetSchema(ctx, &awsglue.GetSchemaInput{
		SchemaId: r.schemaID(name),
	})
	if err != nil {
		var notFound *types.EntityNotFoundException
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check schema %q: %w", name, err)
	}

	return &registry.Metadata{
		Name:          aws.ToString(resp.SchemaName),
		RegistryName:  aws.ToString(resp.RegistryName),
		ARN:           aws.ToString(resp.SchemaArn),
		LatestVersion: aws.ToInt64(resp.LatestSchemaVersion),
		DataFormat:    string(resp.DataFormat),
		Compatibility: string(resp.Compatibility),
		Status:        string(resp.SchemaStatus),
	}, nil
}

func (r *Registry) schemaID(name string) *types.SchemaId {
	id := &types.SchemaId{SchemaName: aws.String(name)}
	if r.cfg.RegistryName != "" {
		id.RegistryName = aws.String(r.cfg.RegistryName)
	}
	return id
}

// mapError translates Glue's not-found exception into registry.ErrSchemaVersionNotFound
// while keeping the original error in the chain.
func mapError(err error) error {
	var notFound *types.EntityNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %w", registry.ErrSchemaVersionNotFound, err)
	}
	return err
}
