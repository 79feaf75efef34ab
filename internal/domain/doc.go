// Package domain defines the core domain types for the Watchtower network
// topology visualization system.
//
// A Topology is an immutable-per-refresh snapshot of the monitored network:
// clusters of devices, the connections between devices, and external links
// to off-network endpoints (ISPs, remote sites). Snapshots are replaced
// wholesale by whichever supplier is configured (topology file, demo
// generator); nothing in this package mutates a snapshot after it has been
// handed out.
//
// The derived visualization graph is not defined here — see package compose,
// which projects a (Topology, expanded clusters) pair into renderable nodes
// and edges.
package domain
