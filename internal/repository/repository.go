// Package repository defines the persistence interface for topology
// snapshots.
//
// Snapshots are stored whole, as versioned JSON documents: the topology
// is replaced wholesale on every refresh, so row-level persistence of
// individual devices or connections would buy nothing. The latest stored
// snapshot seeds the server at boot when no topology file is configured.
// View state is deliberately not persisted; every session starts with all
// clusters collapsed.
package repository

import (
	"context"
	"time"

	"watchtower/internal/domain"
)

// SnapshotInfo summarizes one stored snapshot
type SnapshotInfo struct {
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	DeviceCount int       `json:"device_count"`
}

// Repository persists topology snapshots
type Repository interface {
	// SaveSnapshot stores a snapshot under its version
	SaveSnapshot(ctx context.Context, topo *domain.Topology) error

	// LatestSnapshot returns the most recently stored snapshot, or
	// nil, nil when none exists.
	LatestSnapshot(ctx context.Context) (*domain.Topology, error)

	// ListSnapshots returns stored snapshot summaries, newest first
	ListSnapshots(ctx context.Context, limit int) ([]SnapshotInfo, error)

	// Prune deletes all but the newest keep snapshots
	Prune(ctx context.Context, keep int) error

	// Clear removes all stored snapshots
	Clear(ctx context.Context) error

	// Close releases resources
	Close() error
}
