package resources

import (
	"fmt"
	"sort"
	"sync"

	"github.com/incus-tools/netsync/internal/config"
	"github.com/incus-tools/netsync/internal/reconcile"
	netsyncerrors "github.com/incus-tools/netsync/pkg/errors"
)

// Factory builds an adapter for one manifest resource of its kind.
type Factory func(resource config.Resource) (reconcile.Adapter, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds an adapter factory for the provided kind.
func Register(kind string, factory Factory) error {
	if factory == nil {
		return netsyncerrors.NewValidationError(kind, "adapter factory is nil", nil)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[kind]; exists {
		return netsyncerrors.NewValidationError(kind, "adapter factory already registered", nil)
	}

	registry[kind] = factory
	return nil
}

// ForResource builds the adapter matching the resource's kind.
func ForResource(resource config.Resource) (reconcile.Adapter, error) {
	registryMu.RLock()
	factory, ok := registry[resource.Kind]
	registryMu.RUnlock()

	if !ok {
		return nil, netsyncerrors.NewValidationError(resource.ID, fmt.Sprintf("no adapter registered for kind %q", resource.Kind), nil)
	}

	return factory(resource)
}

// Kinds lists the registered kinds in sorted order.
func Kinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	kinds := make([]string, 0, len(registry))
	for kind := range registry {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// ResetRegistry clears adapter registrations (for tests).
func ResetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Factory)
}
