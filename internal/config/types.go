package config

import (
	"gopkg.in/yaml.v3"
)

// Resource kinds accepted in a manifest.
const (
	KindACL          = "acl"
	KindZone         = "zone"
	KindPeer         = "peer"
	KindForward      = "forward"
	KindLoadBalancer = "load_balancer"
)

// Manifest is the full desired-state document netsync applies.
type Manifest struct {
	Version     string     `yaml:"version" validate:"required,semver"`
	Name        string     `yaml:"name" validate:"required,min=1,max=100"`
	Description string     `yaml:"description,omitempty"`
	Settings    Settings   `yaml:"settings,omitempty"`
	Resources   []Resource `yaml:"resources" validate:"required,min=1,dive"`
}

// Settings holds connection and execution parameters shared by every
// resource in the manifest.
type Settings struct {
	Project         string `yaml:"project,omitempty"`
	Remote          Remote `yaml:"remote,omitempty"`
	ContinueOnError bool   `yaml:"continue_on_error,omitempty"`
	Check           bool   `yaml:"check,omitempty"`
	Verbose         bool   `yaml:"verbose,omitempty"`
}

// Remote selects how to reach the Incus daemon: a unix socket path, or an
// HTTPS endpoint with certificate authentication.
type Remote struct {
	Socket             string `yaml:"socket,omitempty"`
	URL                string `yaml:"url,omitempty" validate:"omitempty,url"`
	ClientCert         string `yaml:"client_cert,omitempty"`
	ClientKey          string `yaml:"client_key,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify,omitempty"`
}

// Resource describes one declared resource in the manifest.
type Resource struct {
	ID      string `yaml:"id" validate:"required,resource_id"`
	Kind    string `yaml:"kind" validate:"required,oneof=acl zone peer forward load_balancer"`
	State   string `yaml:"state,omitempty" validate:"omitempty,oneof=present absent"`
	Enabled bool   `yaml:"enabled,omitempty"`

	ACL          *ACLResource          `yaml:",inline,omitempty"`
	Zone         *ZoneResource         `yaml:",inline,omitempty"`
	Peer         *PeerResource         `yaml:",inline,omitempty"`
	Forward      *ForwardResource      `yaml:",inline,omitempty"`
	LoadBalancer *LoadBalancerResource `yaml:",inline,omitempty"`
}

// UnmarshalYAML customises resource decoding to populate kind-specific
// structures without conflicts.
func (r *Resource) UnmarshalYAML(value *yaml.Node) error {
	type baseResource struct {
		ID      string `yaml:"id"`
		Kind    string `yaml:"kind"`
		State   string `yaml:"state"`
		Enabled *bool  `yaml:"enabled"`
	}

	var base baseResource
	if err := value.Decode(&base); err != nil {
		return err
	}

	r.ID = base.ID
	r.Kind = base.Kind
	r.State = base.State
	if base.State == "" {
		r.State = "present"
	}
	if base.Enabled != nil {
		r.Enabled = *base.Enabled
	} else {
		r.Enabled = true
	}

	r.ACL = nil
	r.Zone = nil
	r.Peer = nil
	r.Forward = nil
	r.LoadBalancer = nil

	switch base.Kind {
	case KindACL:
		var acl ACLResource
		if err := value.Decode(&acl); err != nil {
			return err
		}
		r.ACL = &acl
	case KindZone:
		var zone ZoneResource
		if err := value.Decode(&zone); err != nil {
			return err
		}
		r.Zone = &zone
	case KindPeer:
		var peer PeerResource
		if err := value.Decode(&peer); err != nil {
			return err
		}
		r.Peer = &peer
	case KindForward:
		var forward ForwardResource
		if err := value.Decode(&forward); err != nil {
			return err
		}
		r.Forward = &forward
	case KindLoadBalancer:
		var lb LoadBalancerResource
		if err := value.Decode(&lb); err != nil {
			return err
		}
		r.LoadBalancer = &lb
	}

	return nil
}

// ACLResource declares a network ACL.
type ACLResource struct {
	Name        string            `yaml:"name" validate:"required"`
	Description string            `yaml:"description,omitempty"`
	Config      map[string]string `yaml:"config,omitempty"`
	Ingress     []ACLRule         `yaml:"ingress,omitempty" validate:"omitempty,dive"`
	Egress      []ACLRule         `yaml:"egress,omitempty" validate:"omitempty,dive"`
}

// ACLRule is one ingress or egress entry of an ACL. The json tags mirror
// the Incus wire schema.
type ACLRule struct {
	Action          string `yaml:"action" json:"action" validate:"required,oneof=allow reject drop"`
	Source          string `yaml:"source,omitempty" json:"source,omitempty"`
	Destination     string `yaml:"destination,omitempty" json:"destination,omitempty"`
	Protocol        string `yaml:"protocol,omitempty" json:"protocol,omitempty" validate:"omitempty,oneof=tcp udp icmp4 icmp6"`
	SourcePort      string `yaml:"source_port,omitempty" json:"source_port,omitempty"`
	DestinationPort string `yaml:"destination_port,omitempty" json:"destination_port,omitempty"`
	ICMPType        string `yaml:"icmp_type,omitempty" json:"icmp_type,omitempty"`
	ICMPCode        string `yaml:"icmp_code,omitempty" json:"icmp_code,omitempty"`
	Description     string `yaml:"description,omitempty" json:"description,omitempty"`
	State           string `yaml:"state,omitempty" json:"state,omitempty" validate:"omitempty,oneof=enabled disabled logged"`
}

// ZoneResource declares a network DNS zone.
type ZoneResource struct {
	Name        string            `yaml:"name" validate:"required"`
	Description string            `yaml:"description,omitempty"`
	Config      map[string]string `yaml:"config,omitempty"`
}

// PeerResource declares a peering between two networks.
type PeerResource struct {
	Name              string            `yaml:"name" validate:"required"`
	Network           string            `yaml:"network" validate:"required"`
	Description       string            `yaml:"description,omitempty"`
	Config            map[string]string `yaml:"config,omitempty"`
	Type              string            `yaml:"type,omitempty" validate:"omitempty,oneof=local remote"`
	TargetNetwork     string            `yaml:"target_network,omitempty"`
	TargetProject     string            `yaml:"target_project,omitempty"`
	TargetIntegration string            `yaml:"target_integration,omitempty"`
}

// ForwardResource declares a network forward listening on an address.
type ForwardResource struct {
	Network       string            `yaml:"network" validate:"required"`
	ListenAddress string            `yaml:"listen_address" validate:"required,ip"`
	Description   string            `yaml:"description,omitempty"`
	Config        map[string]string `yaml:"config,omitempty"`
	Ports         []ForwardPort     `yaml:"ports,omitempty" validate:"omitempty,dive"`
}

// ForwardPort is one port rule of a network forward. Ports are written as
// strings end to end; the forward adapter passes them through unmodified.
type ForwardPort struct {
	Description   string `yaml:"description,omitempty" json:"description,omitempty"`
	Protocol      string `yaml:"protocol,omitempty" json:"protocol,omitempty" validate:"omitempty,oneof=tcp udp"`
	ListenPort    string `yaml:"listen_port" json:"listen_port" validate:"required"`
	TargetAddress string `yaml:"target_address" json:"target_address" validate:"required,ip"`
	TargetPort    string `yaml:"target_port,omitempty" json:"target_port,omitempty"`
}

// LoadBalancerResource declares a network load balancer.
type LoadBalancerResource struct {
	Network       string                `yaml:"network" validate:"required"`
	ListenAddress string                `yaml:"listen_address" validate:"required,ip"`
	Description   string                `yaml:"description,omitempty"`
	Config        map[string]string     `yaml:"config,omitempty"`
	Backends      []LoadBalancerBackend `yaml:"backends,omitempty" validate:"omitempty,dive"`
	Ports         []LoadBalancerPort    `yaml:"ports,omitempty" validate:"omitempty,dive"`
}

// LoadBalancerBackend is a traffic target of a load balancer.
type LoadBalancerBackend struct {
	Name          string `yaml:"name" json:"name" validate:"required"`
	TargetAddress string `yaml:"target_address" json:"target_address" validate:"required,ip"`
	TargetPort    string `yaml:"target_port,omitempty" json:"target_port,omitempty"`
	Description   string `yaml:"description,omitempty" json:"description,omitempty"`
}

// LoadBalancerPort maps a listen port onto one or more backends. The
// listen port may be written as a number or a string in YAML; the Incus
// schema expects the string form and the adapter coerces it on the way
// out.
type LoadBalancerPort struct {
	Description   string   `yaml:"description,omitempty"`
	Protocol      string   `yaml:"protocol,omitempty" validate:"omitempty,oneof=tcp udp"`
	ListenPort    any      `yaml:"listen_port" validate:"required"`
	TargetBackend []string `yaml:"target_backend,omitempty"`
}
