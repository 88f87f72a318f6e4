package acl

import (
	"github.com/incus-tools/netsync/internal/config"
	"github.com/incus-tools/netsync/internal/reconcile"
	"github.com/incus-tools/netsync/internal/resources"
	netsyncerrors "github.com/incus-tools/netsync/pkg/errors"
)

type adapter struct {
	cfg *config.ACLResource
}

func init() {
	if err := resources.Register(config.KindACL, New); err != nil {
		panic(err)
	}
}

// New builds the ACL adapter for a manifest resource.
func New(resource config.Resource) (reconcile.Adapter, error) {
	if resource.ACL == nil {
		return nil, netsyncerrors.NewValidationError(resource.ID, "acl configuration missing", nil)
	}
	return &adapter{cfg: resource.ACL}, nil
}

func (a *adapter) Kind() string {
	return "acl"
}

func (a *adapter) CollectionPath() string {
	return "/1.0/network-acls"
}

func (a *adapter) IdentityPath() string {
	return "/1.0/network-acls/" + a.cfg.Name
}

// Payload sends every field unconditionally; unset config and rule lists
// go out as null, which the server treats as unset. The name field is
// ignored by PATCH updates.
func (a *adapter) Payload() map[string]any {
	return map[string]any{
		"name":        a.cfg.Name,
		"config":      a.cfg.Config,
		"description": a.cfg.Description,
		"egress":      a.cfg.Egress,
		"ingress":     a.cfg.Ingress,
	}
}
