package schemastore

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig configures a MinioStore.
type MinioConfig struct {
	// Endpoint is the S3/MinIO host:port, without scheme.
	Endpoint string `yaml:"endpoint" envconfig:"SCHEMASTORE_MINIO_ENDPOINT"`

	AccessKeyID     string `yaml:"access_key_id" envconfig:"SCHEMASTORE_MINIO_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" envconfig:"SCHEMASTORE_MINIO_SECRET_ACCESS_KEY"`
	UseSSL          bool   `yaml:"use_ssl" envconfig:"SCHEMASTORE_MINIO_USE_SSL"`
	Region          string `yaml:"region" envconfig:"SCHEMASTORE_MINIO_REGION"`

	// Bucket holding the .avsc objects.
	Bucket string `yaml:"bucket" envconfig:"SCHEMASTORE_MINIO_BUCKET"`

	// Prefix is prepended to every object key, e.g. "schemas".
	Prefix string `yaml:"prefix" envconfig:"SCHEMASTORE_MINIO_PREFIX"`
}

// MinioStore loads definitions from objects in a MinIO or S3 bucket. The
// schema com.example.address lives at <prefix>/com/example/address.avsc.
type MinioStore struct {
	client *minio.Client
	bucket string
	prefix string
	cache  *definitionCache
}

var _ Store = (*MinioStore)(nil)

// NewMinioStore connects to the configured endpoint.
func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("schema store bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return NewMinioStoreWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewMinioStoreWithClient builds a store on an existing client.
func NewMinioStoreWithClient(client *minio.Client, bucket, prefix string) *MinioStore {
	return &MinioStore{
		client: client,
		bucket: bucket,
		prefix: prefix,
		cache:  newDefinitionCache(),
	}
}

// Find returns the expanded definition of name.
func (s *MinioStore) Find(ctx context.Context, name string) (string, error) {
	if definition, ok := s.cache.get(name); ok {
		return definition, nil
	}

	definition, err := expand(ctx, name, s.read)
	if err != nil {
		return "", err
	}

	s.cache.put(name, definition)
	return definition, nil
}

func (s *MinioStore) read(ctx context.Context, fullName string) (string, error) {
	key := path.Join(s.prefix, objectPath(fullName))

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return "", s.mapError(fullName, key, err)
	}
	defer obj.Close()

	// GetObject is lazy; a missing key only surfaces on the first read.
	b, err := io.ReadAll(obj)
	if err != nil {
		return "", s.mapError(fullName, key, err)
	}
	return string(b), nil
}

func (s *MinioStore) mapError(fullName, key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: %q (object %s/%s)", ErrSchemaNotFound, fullName, s.bucket, key)
	}
	return fmt.Errorf("failed to read schema %q: %w", fullName, err)
}
