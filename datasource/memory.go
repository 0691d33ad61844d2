package datasource

import (
	"context"
	"sync"

	"github.com/Jayrodri088/offchain-resolution-gateway/interfaces"
)

// MemorySource is an in-process map-backed data source, used in tests and as
// the mem:// factory backend.
type MemorySource struct {
	mu       sync.RWMutex
	mappings map[string]string
}

// NewMemorySource creates a memory data source seeded with the given
// mappings. A nil map creates an empty source.
func NewMemorySource(mappings map[string]string) *MemorySource {
	copied := make(map[string]string, len(mappings))
	for k, v := range mappings {
		copied[k] = v
	}
	return &MemorySource{mappings: copied}
}

// Set adds or replaces a mapping.
func (s *MemorySource) Set(label, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[label] = value
}

// Delete removes a mapping.
func (s *MemorySource) Delete(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mappings, label)
}

// Lookup implements interfaces.DataSource.
func (s *MemorySource) Lookup(ctx context.Context, label string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.mappings[label]
	if !ok {
		return "", interfaces.ErrDomainNotFound
	}
	return value, nil
}

// Available implements interfaces.DataSource.
func (s *MemorySource) Available(ctx context.Context) bool {
	return true
}

// Name implements interfaces.DataSource.
func (s *MemorySource) Name() string {
	return "memory"
}

// LocationURI implements interfaces.DataSource.
func (s *MemorySource) LocationURI() string {
	return "mem://"
}
