package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"watchtower/internal/domain"
	"watchtower/internal/repository"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.Repository = (*Repository)(nil)

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		version TEXT PRIMARY KEY,
		device_count INTEGER NOT NULL DEFAULT 0,
		data JSON NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// SaveSnapshot stores a snapshot under its version, replacing any
// existing row for the same version.
func (r *Repository) SaveSnapshot(ctx context.Context, topo *domain.Topology) error {
	if topo.Version == "" {
		return fmt.Errorf("snapshot version required")
	}

	data, err := json.Marshal(topo)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (version, device_count, data)
		VALUES (?, ?, ?)
		ON CONFLICT(version) DO UPDATE SET
			device_count = excluded.device_count,
			data = excluded.data,
			created_at = CURRENT_TIMESTAMP
	`, topo.Version, len(topo.Devices), data)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	return nil
}

// LatestSnapshot returns the most recently stored snapshot, or nil, nil
// when the store is empty.
func (r *Repository) LatestSnapshot(ctx context.Context) (*domain.Topology, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT data FROM snapshots
		ORDER BY created_at DESC, version DESC
		LIMIT 1
	`).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}

	var topo domain.Topology
	if err := json.Unmarshal(data, &topo); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if topo.Devices == nil {
		topo.Devices = make(map[string]domain.Device)
	}

	return &topo, nil
}

// ListSnapshots returns stored snapshot summaries, newest first
func (r *Repository) ListSnapshots(ctx context.Context, limit int) ([]repository.SnapshotInfo, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT version, device_count, created_at FROM snapshots
		ORDER BY created_at DESC, version DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	infos := make([]repository.SnapshotInfo, 0)
	for rows.Next() {
		var info repository.SnapshotInfo
		if err := rows.Scan(&info.Version, &info.DeviceCount, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		infos = append(infos, info)
	}

	return infos, rows.Err()
}

// Prune deletes all but the newest keep snapshots
func (r *Repository) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		keep = 0
	}

	_, err := r.db.ExecContext(ctx, `
		DELETE FROM snapshots WHERE version NOT IN (
			SELECT version FROM snapshots
			ORDER BY created_at DESC, version DESC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}

	return nil
}

// Clear removes all stored snapshots
func (r *Repository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (r *Repository) Close() error {
	return r.db.Close()
}
