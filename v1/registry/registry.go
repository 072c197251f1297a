package registry

import "context"

// Registry provides an interface for interacting with a remote schema registry.
// It maps schema ids to definitions and definitions to ids, and optionally
// registers and inspects schemas.
//
// Register and Check are optional capabilities: an implementation that cannot
// perform them returns ErrUnsupportedOperation.
//
//go:generate mockgen -source=registry.go -destination=mock_registry.go -package=registry
type Registry interface {
	// Fetch retrieves the schema definition text registered under id.
	Fetch(ctx context.Context, id SchemaID) (string, error)

	// FetchByDefinition returns the id of the version of schema name whose
	// definition matches definition exactly.
	FetchByDefinition(ctx context.Context, name, definition string) (SchemaID, error)

	// Register creates schema name with definition and returns the id of the new version.
	Register(ctx context.Context, name, definition string) (SchemaID, error)

	// Check returns metadata about schema name, or nil if the registry does not know it.
	Check(ctx context.Context, name, definition string) (*Metadata, error)
}

// Metadata describes a schema known to the registry.
type Metadata struct {
	Name          string `json:"name"`
	RegistryName  string `json:"registryName,omitempty"`
	ARN           string `json:"arn,omitempty"`
	LatestVersion int64  `json:"latestVersion"`
	DataFormat    string `json:"dataFormat,omitempty"`
	Compatibility string `json:"compatibility,omitempty"`
	Status        string `json:"status,omitempty"`
}
