package reconcile

import (
	"context"

	"github.com/incus-tools/netsync/internal/incus"
)

// State is the presence classification of a remote resource, and also the
// target a manifest entry declares.
type State string

const (
	// StatePresent means the resource exists on the server.
	StatePresent State = "present"
	// StateAbsent means the resource does not exist on the server.
	StateAbsent State = "absent"
)

// IsValid reports whether the state is one of the two known values.
func (s State) IsValid() bool {
	return s == StatePresent || s == StateAbsent
}

// Adapter supplies the per-kind pieces the generic reconciler needs: where
// the resource lives on the API surface and what its write payload looks
// like. Everything else about reconciliation is kind-agnostic.
type Adapter interface {
	// Kind is the key under which the resource appears in result records
	// ("acl", "zone", "peer", "forward", "loadbalancer").
	Kind() string

	// CollectionPath is the POST target used to create the resource.
	CollectionPath() string

	// IdentityPath is the GET/PATCH/DELETE target for this specific
	// resource instance.
	IdentityPath() string

	// Payload projects the desired state into the write body. Field
	// inclusion and type coercion rules are kind-specific and belong
	// here, never in the reconciler.
	Payload() map[string]any
}

// Querier is the transport operation the reconciler depends on. Error
// codes listed in okErrors are tolerated and returned as a response
// instead of failing; everything else error-typed is fatal.
type Querier interface {
	Query(ctx context.Context, method, path string, payload any, okErrors ...int) (*incus.Response, error)
}
