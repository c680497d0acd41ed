package loader

import (
	"context"
	"fmt"
	"sync"

	"github.com/ariunbolor/cozmo-tools/pkg/fsm"
	"github.com/ariunbolor/cozmo-tools/pkg/ports"
)

// MemorySource serves compiled-in program factories registered by name. It
// backs the built-in demo programs and keeps tests independent of the
// interpreter; there is no hot reload, but versions still bump per resolve
// so swap semantics match the filesystem source.
type MemorySource struct {
	mu        sync.Mutex
	factories map[string]func() (fsm.StateNode, error)
	versions  map[string]int
}

// NewMemorySource creates an empty source.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		factories: make(map[string]func() (fsm.StateNode, error)),
		versions:  make(map[string]int),
	}
}

// Register installs a factory under name, replacing any previous one.
func (s *MemorySource) Register(name string, factory func() (fsm.StateNode, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.factories[name] = factory
}

// Resolve returns a definition wrapping the registered factory.
func (s *MemorySource) Resolve(ctx context.Context, name string) (*ports.Definition, error) {
	s.mu.Lock()
	factory, ok := s.factories[name]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%q: %w", name, ports.ErrProgramNotFound)
	}
	s.versions[name]++
	version := s.versions[name]
	s.mu.Unlock()

	return &ports.Definition{
		Name:      name,
		Version:   version,
		Construct: factory,
	}, nil
}
