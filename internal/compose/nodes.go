package compose

import (
	"watchtower/internal/domain"
)

// ProjectNodes derives the visible node set for the given expansion
// state, walking clusters in the topology's declared order.
//
// An expanded cluster contributes one device node per resolvable member,
// placed symmetrically around the cluster's canvas position; member ids
// that resolve to no device are dropped. A collapsed cluster contributes
// a single cluster node carrying its resolved devices for the renderer's
// rollups. An expanded cluster with zero resolvable members contributes
// nothing.
func ProjectNodes(topo *domain.Topology, expanded ViewState) []Node {
	nodes := make([]Node, 0, len(topo.Clusters))

	for i := range topo.Clusters {
		cluster := &topo.Clusters[i]
		devices := topo.ClusterDevices(cluster)

		if !expanded.IsExpanded(cluster.ID) {
			nodes = append(nodes, Node{
				ID:       cluster.ID,
				Kind:     NodeKindCluster,
				Label:    cluster.Name,
				Position: cluster.Position,
				Cluster:  cluster,
				Devices:  devices,
			})
			continue
		}

		startX := cluster.Position.X - float64(len(devices)-1)*DeviceSpacing/2
		for j := range devices {
			nodes = append(nodes, Node{
				ID:        devices[j].ID,
				Kind:      NodeKindDevice,
				Label:     devices[j].DisplayName,
				ClusterID: cluster.ID,
				Position: domain.Position{
					X: startX + float64(j)*DeviceSpacing,
					Y: cluster.Position.Y,
				},
				Device: &devices[j],
			})
		}
	}

	return nodes
}
