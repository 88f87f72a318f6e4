package zone

import (
	"github.com/incus-tools/netsync/internal/config"
	"github.com/incus-tools/netsync/internal/reconcile"
	"github.com/incus-tools/netsync/internal/resources"
	netsyncerrors "github.com/incus-tools/netsync/pkg/errors"
)

type adapter struct {
	cfg *config.ZoneResource
}

func init() {
	if err := resources.Register(config.KindZone, New); err != nil {
		panic(err)
	}
}

// New builds the network-zone adapter for a manifest resource.
func New(resource config.Resource) (reconcile.Adapter, error) {
	if resource.Zone == nil {
		return nil, netsyncerrors.NewValidationError(resource.ID, "zone configuration missing", nil)
	}
	return &adapter{cfg: resource.Zone}, nil
}

func (a *adapter) Kind() string {
	return "zone"
}

func (a *adapter) CollectionPath() string {
	return "/1.0/network-zones"
}

func (a *adapter) IdentityPath() string {
	return "/1.0/network-zones/" + a.cfg.Name
}

func (a *adapter) Payload() map[string]any {
	return map[string]any{
		"name":        a.cfg.Name,
		"description": a.cfg.Description,
		"config":      a.cfg.Config,
	}
}
