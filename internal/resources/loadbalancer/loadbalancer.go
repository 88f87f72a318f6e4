package loadbalancer

import (
	"fmt"

	"github.com/incus-tools/netsync/internal/config"
	"github.com/incus-tools/netsync/internal/reconcile"
	"github.com/incus-tools/netsync/internal/resources"
	netsyncerrors "github.com/incus-tools/netsync/pkg/errors"
)

type adapter struct {
	cfg *config.LoadBalancerResource
}

func init() {
	if err := resources.Register(config.KindLoadBalancer, New); err != nil {
		panic(err)
	}
}

// New builds the load-balancer adapter for a manifest resource.
func New(resource config.Resource) (reconcile.Adapter, error) {
	if resource.LoadBalancer == nil {
		return nil, netsyncerrors.NewValidationError(resource.ID, "load_balancer configuration missing", nil)
	}
	return &adapter{cfg: resource.LoadBalancer}, nil
}

func (a *adapter) Kind() string {
	return "loadbalancer"
}

func (a *adapter) CollectionPath() string {
	return fmt.Sprintf("/1.0/networks/%s/load-balancers", a.cfg.Network)
}

func (a *adapter) IdentityPath() string {
	return fmt.Sprintf("/1.0/networks/%s/load-balancers/%s", a.cfg.Network, a.cfg.ListenAddress)
}

// Payload coerces every listen_port to its string form. The load-balancer
// schema rejects numeric ports; the other kinds do not share this rule, so
// the coercion stays local to this adapter.
func (a *adapter) Payload() map[string]any {
	ports := make([]map[string]any, 0, len(a.cfg.Ports))
	for _, port := range a.cfg.Ports {
		entry := map[string]any{
			"listen_port": fmt.Sprintf("%v", port.ListenPort),
		}
		if port.Description != "" {
			entry["description"] = port.Description
		}
		if port.Protocol != "" {
			entry["protocol"] = port.Protocol
		}
		if len(port.TargetBackend) > 0 {
			entry["target_backend"] = port.TargetBackend
		}
		ports = append(ports, entry)
	}

	cfg := a.cfg.Config
	if cfg == nil {
		cfg = map[string]string{}
	}
	backends := a.cfg.Backends
	if backends == nil {
		backends = []config.LoadBalancerBackend{}
	}

	return map[string]any{
		"listen_address": a.cfg.ListenAddress,
		"description":    a.cfg.Description,
		"network":        a.cfg.Network,
		"config":         cfg,
		"backends":       backends,
		"ports":          ports,
	}
}
