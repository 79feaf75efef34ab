package compose

import (
	"watchtower/internal/domain"
)

// ProjectEdges derives the visible edge set for the given expansion state.
//
// Each connection endpoint renders as its device id when the owning
// cluster is expanded and as the cluster id when collapsed. Connections
// whose endpoints fail device or cluster resolution are skipped, as are
// edges that would loop back onto themselves (an intra-cluster link with
// the cluster collapsed). Multiple connections collapsing onto the same
// unordered endpoint pair render as a single edge; the first connection
// observed wins the edge id and payload, and later ones are suppressed
// rather than merged. This mirrors the reference dashboard's behavior and
// knowingly discards the suppressed connections' utilization and status.
//
// External links are never deduplicated: distinct circuits to the same
// named endpoint are independently meaningful, so each link id yields
// exactly one edge. Missing status defaults to up.
func ProjectEdges(topo *domain.Topology, expanded ViewState) []Edge {
	edges := make([]Edge, 0, len(topo.Connections)+len(topo.ExternalLinks))
	seen := make(map[[2]string]struct{})

	for i := range topo.Connections {
		conn := &topo.Connections[i]

		source, ok := renderEndpoint(topo, expanded, conn.Source.Device)
		if !ok {
			continue
		}
		target, ok := renderEndpoint(topo, expanded, conn.Target.Device)
		if !ok {
			continue
		}
		if source == target {
			continue
		}

		key := pairKey(source, target)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		edges = append(edges, Edge{
			ID:             conn.ID,
			Source:         source,
			Target:         target,
			Kind:           EdgeKindConnection,
			Utilization:    conn.Utilization,
			Status:         string(conn.Status),
			ConnectionType: conn.ConnectionType,
			SpeedMbps:      conn.SpeedMbps,
		})
	}

	for i := range topo.ExternalLinks {
		link := &topo.ExternalLinks[i]
		if link.Target.Label == "" {
			continue
		}

		var source string
		switch {
		case link.Source.Device != "":
			s, ok := renderEndpoint(topo, expanded, link.Source.Device)
			if !ok {
				continue
			}
			source = s
		case link.Source.Label != "":
			source = ExternalNodeID(link.Source.Label)
		default:
			continue
		}

		target := ExternalNodeID(link.Target.Label)
		if source == target {
			continue
		}

		status := link.Status
		if status == "" {
			status = domain.ConnStatusUp
		}

		edges = append(edges, Edge{
			ID:          link.ID,
			Source:      source,
			Target:      target,
			Kind:        EdgeKindExternal,
			Utilization: link.Utilization,
			Status:      string(status),
			SpeedMbps:   link.SpeedMbps,
			Provider:    link.Provider,
		})
	}

	return edges
}

// renderEndpoint resolves a connection endpoint's device id to the node
// id it renders as: the device id when its cluster is expanded, the
// cluster id when collapsed. Reports false when the device or its owning
// cluster does not exist.
func renderEndpoint(topo *domain.Topology, expanded ViewState, deviceID string) (string, bool) {
	if deviceID == "" {
		return "", false
	}
	device, ok := topo.Devices[deviceID]
	if !ok {
		return "", false
	}
	cluster := topo.Cluster(device.ClusterID)
	if cluster == nil {
		return "", false
	}
	if expanded.IsExpanded(cluster.ID) {
		return device.ID, true
	}
	return cluster.ID, true
}

// pairKey is the canonical dedup key for an unordered endpoint pair
func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}
