package compose

import (
	"watchtower/internal/domain"
)

// Compose derives the full renderable graph for a topology snapshot and
// an expansion state: cluster/device nodes in declared cluster order,
// followed by synthesized external nodes in first-occurrence order, then
// connection edges followed by external-link edges.
//
// Compose is pure and stateless: it reads its two inputs, allocates fresh
// output, and remembers nothing between calls, so it is safe to invoke on
// every view-state mutation and every snapshot refresh. topo must not be
// nil; the caller must not compose before the first snapshot is available.
func Compose(topo *domain.Topology, expanded ViewState) *Graph {
	nodes := ProjectNodes(topo, expanded)

	external, order := synthesizeExternal(topo.ExternalLinks)
	for _, label := range order {
		nodes = append(nodes, external[label])
	}

	return &Graph{
		Nodes: nodes,
		Edges: ProjectEdges(topo, expanded),
	}
}
