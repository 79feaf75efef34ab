package domain

// ClusterType classifies a logical device grouping
type ClusterType string

const (
	ClusterTypeNetwork  ClusterType = "network"
	ClusterTypeFirewall ClusterType = "firewall"
	ClusterTypeServer   ClusterType = "server"
	ClusterTypeWireless ClusterType = "wireless"
)

// Cluster is a named logical grouping of devices with a single canvas
// position. DeviceIDs is ordered; the order is preserved when the cluster
// is expanded in the visualization.
type Cluster struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	ClusterType ClusterType `json:"cluster_type" yaml:"cluster_type"`
	Icon        string      `json:"icon,omitempty" yaml:"icon,omitempty"`
	Position    Position    `json:"position" yaml:"position"`
	DeviceIDs   []string    `json:"device_ids" yaml:"device_ids"`
	Status      string      `json:"status,omitempty" yaml:"status,omitempty"`
}
