package forward

import (
	"fmt"

	"github.com/incus-tools/netsync/internal/config"
	"github.com/incus-tools/netsync/internal/reconcile"
	"github.com/incus-tools/netsync/internal/resources"
	netsyncerrors "github.com/incus-tools/netsync/pkg/errors"
)

type adapter struct {
	cfg *config.ForwardResource
}

func init() {
	if err := resources.Register(config.KindForward, New); err != nil {
		panic(err)
	}
}

// New builds the network-forward adapter for a manifest resource.
func New(resource config.Resource) (reconcile.Adapter, error) {
	if resource.Forward == nil {
		return nil, netsyncerrors.NewValidationError(resource.ID, "forward configuration missing", nil)
	}
	return &adapter{cfg: resource.Forward}, nil
}

func (a *adapter) Kind() string {
	return "forward"
}

func (a *adapter) CollectionPath() string {
	return fmt.Sprintf("/1.0/networks/%s/forwards", a.cfg.Network)
}

func (a *adapter) IdentityPath() string {
	return fmt.Sprintf("/1.0/networks/%s/forwards/%s", a.cfg.Network, a.cfg.ListenAddress)
}

// Payload defaults unset config and ports to empty values rather than
// null; port entries pass through with their string ports unmodified.
func (a *adapter) Payload() map[string]any {
	cfg := a.cfg.Config
	if cfg == nil {
		cfg = map[string]string{}
	}
	ports := a.cfg.Ports
	if ports == nil {
		ports = []config.ForwardPort{}
	}

	return map[string]any{
		"listen_address": a.cfg.ListenAddress,
		"description":    a.cfg.Description,
		"config":         cfg,
		"ports":          ports,
	}
}
