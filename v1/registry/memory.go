package registry

import (
	"context"
	"fmt"
	"sync"
)

// InMemory is a process-local Registry. It is meant for tests and local
// development where no remote registry is reachable; it performs no
// compatibility checking.
type InMemory struct {
	registryName string

	// definitions by id
	definitions      map[SchemaID]string
	definitionsMutex sync.RWMutex

	// ids of every version, per schema name, in registration order
	versions map[string][]SchemaID
}

// NewInMemory creates an empty in-memory registry.
func NewInMemory(registryName string) *InMemory {
	return &InMemory{
		registryName: registryName,
		definitions:  make(map[SchemaID]string),
		versions:     make(map[string][]SchemaID),
	}
}

// Fetch returns the definition stored under id.
func (m *InMemory) Fetch(_ context.Context, id SchemaID) (string, error) {
	m.definitionsMutex.RLock()
	defer m.definitionsMutex.RUnlock()

	definition, ok := m.definitions[id]
	if !ok {
		return "", fmt.Errorf("%w: id %s", ErrSchemaVersionNotFound, id)
	}
	return definition, nil
}

// FetchByDefinition returns the id of the version of name registered with exactly definition.
func (m *InMemory) FetchByDefinition(_ context.Context, name, definition string) (SchemaID, error) {
	m.definitionsMutex.RLock()
	defer m.definitionsMutex.RUnlock()

	if id, ok := m.lookup(name, definition); ok {
		return id, nil
	}
	return NilSchemaID, fmt.Errorf("%w: no version of %q matches the definition", ErrSchemaVersionNotFound, name)
}

// Register adds definition as a new version of name. Registering an identical
// definition again returns the existing id.
func (m *InMemory) Register(_ context.Context, name, definition string) (SchemaID, error) {
	m.definitionsMutex.Lock()
	defer m.definitionsMutex.Unlock()

	if id, ok := m.lookup(name, definition); ok {
		return id, nil
	}

	id := NewSchemaID()
	m.definitions[id] = definition
	m.versions[name] = append(m.versions[name], id)
	return id, nil
}

// Check reports the latest version of name, or nil if name was never registered.
func (m *InMemory) Check(_ context.Context, name, _ string) (*Metadata, error) {
	m.definitionsMutex.RLock()
	defer m.definitionsMutex.RUnlock()

	versions, ok := m.versions[name]
	if !ok {
		return nil, nil
	}
	return &Metadata{
		Name:          name,
		RegistryName:  m.registryName,
		LatestVersion: int64(len(versions)),
		DataFormat:    "AVRO",
		Status:        "AVAILABLE",
	}, nil
}

// Put stores definition under a caller-chosen id. Tests use it to reproduce
// registry states with well-known ids.
func (m *InMemory) Put(name string, id SchemaID, definition string) {
	m.definitionsMutex.Lock()
	defer m.definitionsMutex.Unlock()

	m.definitions[id] = definition
	m.versions[name] = append(m.versions[name], id)
}

// lookup must be called with definitionsMutex held.
func (m *InMemory) lookup(name, definition string) (SchemaID, bool) {
	for _, id := range m.versions[name] {
		if m.definitions[id] == definition {
			return id, true
		}
	}
	return NilSchemaID, false
}
