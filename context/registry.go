// Package context manages the available BlockchainContext implementations.
// Backends register themselves in init(); callers pick one by type or use
// the configured default.
package context

import (
	"fmt"
	"sync"

	"github.com/mrathod05/SuiWarriors/types"
)

// ContextType identifies a BlockchainContext implementation.
type ContextType string

const (
	// MemoryContextType is the in-memory context implementation.
	MemoryContextType ContextType = "memory"
	// DBContextType is the sqlite-backed context implementation.
	DBContextType ContextType = "db"
)

// Constructor creates a new BlockchainContext instance from backend-specific
// parameters.
type Constructor func(params map[string]any) types.BlockchainContext

type registry struct {
	mu           sync.RWMutex
	constructors map[ContextType]Constructor
	defaultCt    ContextType
}

var defaultRegistry = &registry{
	constructors: make(map[ContextType]Constructor),
}

// Register adds a BlockchainContext implementation. Registering the same
// type twice is an error.
func Register(ct ContextType, constructor Constructor) error {
	r := defaultRegistry
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.constructors[ct]; exists {
		return fmt.Errorf("context type %s already registered", ct)
	}
	r.constructors[ct] = constructor
	return nil
}

// SetDefault sets the context type returned when Get is called with an
// empty type.
func SetDefault(ct ContextType) error {
	r := defaultRegistry
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.constructors[ct]; !exists {
		return fmt.Errorf("context type %s not registered", ct)
	}
	r.defaultCt = ct
	return nil
}

// DefaultContextType returns the current default context type. Falls back
// to the memory backend if no default has been set.
func DefaultContextType() ContextType {
	r := defaultRegistry
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.defaultCt == "" {
		return MemoryContextType
	}
	return r.defaultCt
}

// Get returns a new instance of the given context type. An empty type
// resolves to the default.
func Get(ct ContextType, params map[string]any) (types.BlockchainContext, error) {
	if ct == "" {
		ct = DefaultContextType()
	}

	r := defaultRegistry
	r.mu.RLock()
	constructor, exists := r.constructors[ct]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("context type %s not found", ct)
	}
	return constructor(params), nil
}

// ListRegistered returns all registered context types.
func ListRegistered() []ContextType {
	r := defaultRegistry
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ContextType, 0, len(r.constructors))
	for ct := range r.constructors {
		out = append(out, ct)
	}
	return out
}
