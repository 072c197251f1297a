package schemastore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultSchemasPath is used when Config.Path is empty.
const DefaultSchemasPath = "./schemas"

// FileStore loads definitions from .avsc files below a directory. The schema
// com.example.address lives in <path>/com/example/address.avsc.
type FileStore struct {
	path  string
	cache *definitionCache
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store rooted at path.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultSchemasPath
	}
	return &FileStore{
		path:  path,
		cache: newDefinitionCache(),
	}
}

// Find returns the expanded definition of name.
func (s *FileStore) Find(ctx context.Context, name string) (string, error) {
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

func (s *FileStore) read(_ context.Context, fullName string) (string, error) {
	file := filepath.Join(s.path, filepath.FromSlash(objectPath(fullName)))

	b, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %q (looked in %s)", ErrSchemaNotFound, fullName, file)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read schema %q: %w", fullName, err)
	}
	return string(b), nil
}
