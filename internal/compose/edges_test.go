package compose

import (
	"testing"

	"watchtower/internal/domain"
)

func TestRenderEndpointResolutionTable(t *testing.T) {
	topo := twoClusterTopology()

	tests := []struct {
		name             string
		expandA, expandB bool
		wantSource       string
		wantTarget       string
	}{
		{"both collapsed", false, false, "A", "B"},
		{"source expanded", true, false, "d1", "B"},
		{"target expanded", false, true, "A", "d3"},
		{"both expanded", true, true, "d1", "d3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expanded := NewViewState()
			if tt.expandA {
				expanded.Toggle("A")
			}
			if tt.expandB {
				expanded.Toggle("B")
			}

			edges := ProjectEdges(topo, expanded)
			if len(edges) != 1 {
				t.Fatalf("expected 1 edge, got %d", len(edges))
			}
			if edges[0].Source != tt.wantSource || edges[0].Target != tt.wantTarget {
				t.Errorf("expected %s->%s, got %s->%s",
					tt.wantSource, tt.wantTarget, edges[0].Source, edges[0].Target)
			}
		})
	}
}

func TestProjectEdgesDedupIsUnordered(t *testing.T) {
	topo := twoClusterTopology()
	// Reverse-direction connection between the same cluster pair.
	topo.Connections = append(topo.Connections, domain.Connection{
		ID:     "c2",
		Source: domain.Endpoint{Device: "d3"},
		Target: domain.Endpoint{Device: "d2"},
		Status: domain.ConnStatusUp,
	})

	edges := ProjectEdges(topo, NewViewState())

	if len(edges) != 1 {
		t.Fatalf("expected reversed duplicate to be suppressed, got %d edges", len(edges))
	}
	if edges[0].ID != "c1" {
		t.Errorf("expected first connection to win, got %s", edges[0].ID)
	}
}

func TestProjectEdgesExternalLinks(t *testing.T) {
	topo := twoClusterTopology()
	topo.ExternalLinks = []domain.ExternalLink{
		{
			ID:          "wan-primary",
			Source:      domain.Endpoint{Device: "d1", Port: "eth1/1"},
			Target:      domain.ExternalTarget{Label: "ISP-Primary", Type: "cloud"},
			Provider:    "Comcast Business",
			SpeedMbps:   500,
			Status:      domain.ConnStatusUp,
			Utilization: 23.4,
		},
		{
			// Same target label, distinct circuit: must not be deduplicated.
			ID:     "wan-secondary",
			Source: domain.Endpoint{Device: "d2"},
			Target: domain.ExternalTarget{Label: "ISP-Primary"},
		},
		{
			// Label-only source (cross-site circuit).
			ID:     "mpls",
			Source: domain.Endpoint{Label: "Remote Office"},
			Target: domain.ExternalTarget{Label: "MPLS Cloud"},
		},
	}

	t.Run("collapsed source renders cluster id", func(t *testing.T) {
		edges := ProjectEdges(topo, NewViewState())
		var wan *Edge
		for i := range edges {
			if edges[i].ID == "wan-primary" {
				wan = &edges[i]
			}
		}
		if wan == nil {
			t.Fatal("missing wan-primary edge")
		}
		if wan.Source != "A" || wan.Target != "external-ISP-Primary" {
			t.Errorf("expected A->external-ISP-Primary, got %s->%s", wan.Source, wan.Target)
		}
		if wan.Provider != "Comcast Business" {
			t.Errorf("expected provider carried through, got %q", wan.Provider)
		}
	})

	t.Run("expanded source renders device id", func(t *testing.T) {
		expanded := NewViewState()
		expanded.Toggle("A")
		edges := ProjectEdges(topo, expanded)
		for _, e := range edges {
			if e.ID == "wan-primary" && e.Source != "d1" {
				t.Errorf("expected source d1, got %s", e.Source)
			}
		}
	})

	t.Run("external links are never deduplicated", func(t *testing.T) {
		edges := ProjectEdges(topo, NewViewState())
		count := 0
		for _, e := range edges {
			if e.Target == "external-ISP-Primary" {
				count++
			}
		}
		if count != 2 {
			t.Errorf("expected 2 circuits to ISP-Primary, got %d", count)
		}
	})

	t.Run("label-only source renders external node id", func(t *testing.T) {
		edges := ProjectEdges(topo, NewViewState())
		for _, e := range edges {
			if e.ID == "mpls" {
				if e.Source != "external-Remote Office" || e.Target != "external-MPLS Cloud" {
					t.Errorf("unexpected endpoints %s->%s", e.Source, e.Target)
				}
				return
			}
		}
		t.Error("missing mpls edge")
	})

	t.Run("missing status defaults to up", func(t *testing.T) {
		edges := ProjectEdges(topo, NewViewState())
		for _, e := range edges {
			if e.ID == "wan-secondary" {
				if e.Status != string(domain.ConnStatusUp) {
					t.Errorf("expected default status up, got %q", e.Status)
				}
				if e.Utilization != 0 {
					t.Errorf("expected default utilization 0, got %v", e.Utilization)
				}
				return
			}
		}
		t.Error("missing wan-secondary edge")
	})
}

func TestProjectEdgesSkipsUnresolvableExternalSources(t *testing.T) {
	topo := twoClusterTopology()
	topo.ExternalLinks = []domain.ExternalLink{
		{ID: "bad-device", Source: domain.Endpoint{Device: "nope"}, Target: domain.ExternalTarget{Label: "Internet"}},
		{ID: "no-source", Source: domain.Endpoint{}, Target: domain.ExternalTarget{Label: "Internet"}},
		{ID: "no-target", Source: domain.Endpoint{Device: "d1"}, Target: domain.ExternalTarget{}},
	}

	edges := ProjectEdges(topo, NewViewState())

	for _, e := range edges {
		if e.Kind == EdgeKindExternal {
			t.Errorf("expected unresolvable external link %s to be skipped", e.ID)
		}
	}
}
