package peer

import (
	"fmt"

	"github.com/incus-tools/netsync/internal/config"
	"github.com/incus-tools/netsync/internal/reconcile"
	"github.com/incus-tools/netsync/internal/resources"
	netsyncerrors "github.com/incus-tools/netsync/pkg/errors"
)

type adapter struct {
	cfg *config.PeerResource
}

func init() {
	if err := resources.Register(config.KindPeer, New); err != nil {
		panic(err)
	}
}

// New builds the network-peer adapter for a manifest resource.
func New(resource config.Resource) (reconcile.Adapter, error) {
	if resource.Peer == nil {
		return nil, netsyncerrors.NewValidationError(resource.ID, "peer configuration missing", nil)
	}
	return &adapter{cfg: resource.Peer}, nil
}

func (a *adapter) Kind() string {
	return "peer"
}

func (a *adapter) CollectionPath() string {
	return fmt.Sprintf("/1.0/networks/%s/peers", a.cfg.Network)
}

func (a *adapter) IdentityPath() string {
	return fmt.Sprintf("/1.0/networks/%s/peers/%s", a.cfg.Network, a.cfg.Name)
}

// Payload includes the peering target fields only when they are set, so an
// update does not clear server-side values the manifest never mentioned.
// target_project only accompanies an explicit target_network.
func (a *adapter) Payload() map[string]any {
	payload := map[string]any{
		"name":        a.cfg.Name,
		"config":      a.cfg.Config,
		"description": a.cfg.Description,
	}

	if a.cfg.TargetNetwork != "" {
		payload["target_network"] = a.cfg.TargetNetwork
		if a.cfg.TargetProject != "" {
			payload["target_project"] = a.cfg.TargetProject
		}
	}
	if a.cfg.TargetIntegration != "" {
		payload["target_integration"] = a.cfg.TargetIntegration
	}
	if a.cfg.Type != "" {
		payload["type"] = a.cfg.Type
	}

	return payload
}
