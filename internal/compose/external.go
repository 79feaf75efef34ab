package compose

import (
	"watchtower/internal/domain"
)

// SynthesizeExternalNodes derives one node per distinct external endpoint
// label referenced by the given links, keyed by label.
//
// Links are walked in order; each link registers its target label first,
// then its source label when the source carries no device anchor (cross-
// site or logical circuits). The first occurrence of a label wins the
// position slot; later occurrences are ignored.
func SynthesizeExternalNodes(links []domain.ExternalLink) map[string]Node {
	nodes, _ := synthesizeExternal(links)
	return nodes
}

// synthesizeExternal additionally returns labels in first-occurrence
// order so composition can emit external nodes deterministically.
func synthesizeExternal(links []domain.ExternalLink) (map[string]Node, []string) {
	nodes := make(map[string]Node)
	order := make([]string, 0, len(links))

	register := func(label string, target *domain.ExternalTarget) {
		if label == "" {
			return
		}
		if _, ok := nodes[label]; ok {
			return
		}
		ext := domain.ExternalTarget{Label: label}
		if target != nil {
			ext = *target
		}
		nodes[label] = Node{
			ID:    ExternalNodeID(label),
			Kind:  NodeKindExternal,
			Label: label,
			Position: domain.Position{
				X: externalColumnX,
				Y: externalBaseY + float64(len(order))*ExternalSpacing,
			},
			External: &ext,
		}
		order = append(order, label)
	}

	for i := range links {
		link := &links[i]
		register(link.Target.Label, &link.Target)
		if link.Source.Device == "" {
			register(link.Source.Label, nil)
		}
	}

	return nodes, order
}
