package compose

import (
	"watchtower/internal/domain"
)

// Layout constants. Device nodes of an expanded cluster fan out
// horizontally around the cluster's canvas position; external nodes stack
// vertically in a fixed column left of the cluster canvas.
const (
	DeviceSpacing   = 160.0
	ExternalSpacing = 120.0

	externalColumnX = -240.0
	externalBaseY   = 60.0
)

// NodeKind discriminates the three kinds of derived nodes
type NodeKind string

const (
	NodeKindCluster  NodeKind = "cluster"
	NodeKindDevice   NodeKind = "device"
	NodeKindExternal NodeKind = "external"
)

// Node is a derived, renderable node. Exactly one of Cluster, Device or
// External is populated, matching Kind. Nodes are ephemeral: they exist
// only as part of a composition result and are never mutated in place.
type Node struct {
	ID       string          `json:"id"`
	Kind     NodeKind        `json:"kind"`
	Label    string          `json:"label"`
	Position domain.Position `json:"position"`

	// ClusterID is the owning cluster for device nodes.
	ClusterID string `json:"cluster_id,omitempty"`

	Cluster  *domain.Cluster        `json:"cluster,omitempty"`
	Device   *domain.Device         `json:"device,omitempty"`
	External *domain.ExternalTarget `json:"external,omitempty"`

	// Devices holds the resolved member devices of a cluster node so the
	// renderer can compute its own summary rollups.
	Devices []domain.Device `json:"devices,omitempty"`
}

// EdgeKind discriminates device/cluster connections from external circuits
type EdgeKind string

const (
	EdgeKindConnection EdgeKind = "connection"
	EdgeKindExternal   EdgeKind = "external"
)

// Edge is a derived, renderable edge between two node ids
type Edge struct {
	ID             string                `json:"id"`
	Source         string                `json:"source"`
	Target         string                `json:"target"`
	Kind           EdgeKind              `json:"kind"`
	Utilization    float64               `json:"utilization"`
	Status         string                `json:"status"`
	ConnectionType domain.ConnectionType `json:"connection_type,omitempty"`
	SpeedMbps      int                   `json:"speed,omitempty"`
	Provider       string                `json:"provider,omitempty"`
}

// Graph is one composition result: the full renderable node and edge sets
// for a (topology, expansion state) pair.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// ExternalNodeID returns the derived node id for an external endpoint
// label. External nodes are deduplicated by label, so any number of links
// naming the same label share one node id.
func ExternalNodeID(label string) string {
	return "external-" + label
}
