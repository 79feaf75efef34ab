package domain

// ConnectionType indicates the purpose of a device-to-device link
type ConnectionType string

const (
	ConnTypeUplink ConnectionType = "uplink"
	ConnTypeTrunk  ConnectionType = "trunk"
	ConnTypeAccess ConnectionType = "access"
	ConnTypeStack  ConnectionType = "stack"
)

// ConnectionStatus represents the operational state of a link
type ConnectionStatus string

const (
	ConnStatusUp       ConnectionStatus = "up"
	ConnStatusDown     ConnectionStatus = "down"
	ConnStatusDegraded ConnectionStatus = "degraded"
)

// Endpoint identifies one end of a connection or external link. Either
// Device (a device id) or Label (an off-topology name) carries the
// identity; Port is informational.
type Endpoint struct {
	Device string `json:"device,omitempty" yaml:"device,omitempty"`
	Port   string `json:"port,omitempty" yaml:"port,omitempty"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Connection represents a link between two device endpoints. It is only
// meaningful for visualization when both endpoints name devices that exist
// in the snapshot and whose owning clusters exist.
type Connection struct {
	ID             string           `json:"id" yaml:"id"`
	Source         Endpoint         `json:"source" yaml:"source"`
	Target         Endpoint         `json:"target" yaml:"target"`
	ConnectionType ConnectionType   `json:"connection_type" yaml:"connection_type"`
	SpeedMbps      int              `json:"speed" yaml:"speed"`
	Status         ConnectionStatus `json:"status" yaml:"status"`
	Utilization    float64          `json:"utilization" yaml:"utilization"`
	InBps          int64            `json:"in_bps,omitempty" yaml:"in_bps,omitempty"`
	OutBps         int64            `json:"out_bps,omitempty" yaml:"out_bps,omitempty"`
}

// ExternalTarget names an off-topology endpoint (internet, another site,
// an exchange). Label is its identity for visualization purposes.
type ExternalTarget struct {
	Label string `json:"label" yaml:"label"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// ExternalLink is a circuit from a (usually device-anchored) source to a
// label-only external target. Distinct circuits to the same named endpoint
// are independently meaningful and are never merged.
type ExternalLink struct {
	ID          string           `json:"id" yaml:"id"`
	Source      Endpoint         `json:"source" yaml:"source"`
	Target      ExternalTarget   `json:"target" yaml:"target"`
	Provider    string           `json:"provider,omitempty" yaml:"provider,omitempty"`
	SpeedMbps   int              `json:"speed" yaml:"speed"`
	Status      ConnectionStatus `json:"status" yaml:"status"`
	Utilization float64          `json:"utilization" yaml:"utilization"`
}
