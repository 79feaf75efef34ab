// Package service owns the live topology snapshot and the per-server view
// state, and derives everything the HTTP surface serves from them.
//
// The snapshot is replaced wholesale on every refresh; the service never
// mutates a published snapshot. View state mutations and snapshot swaps
// are serialized under one lock, so a composed graph always reflects a
// consistent (snapshot, expansion) pair.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"watchtower/internal/cache"
	"watchtower/internal/compose"
	"watchtower/internal/domain"
	"watchtower/internal/repository"
)

// ErrNoSnapshot is returned when a read arrives before the first topology
// snapshot has been published.
var ErrNoSnapshot = errors.New("no topology snapshot loaded")

const (
	graphCacheTTL   = 5 * time.Minute
	alertCacheTTL   = 30 * time.Second
	snapshotsToKeep = 20
)

// Supplier produces a fresh topology snapshot on demand. The file loader
// and the demo generator both satisfy it.
type Supplier func(ctx context.Context) (*domain.Topology, error)

// TopologyService holds the current snapshot and view state and composes
// renderable graphs from them.
type TopologyService struct {
	repo     repository.Repository
	cache    cache.Cache
	eventBus *EventBus
	logger   *log.Logger
	supplier Supplier

	mu       sync.RWMutex
	topo     *domain.Topology
	expanded compose.ViewState
	extra    []domain.Alert
}

// NewTopologyService creates a service with all clusters collapsed and no
// snapshot loaded.
func NewTopologyService(repo repository.Repository, c cache.Cache, eventBus *EventBus, logger *log.Logger) *TopologyService {
	return &TopologyService{
		repo:     repo,
		cache:    c,
		eventBus: eventBus,
		logger:   logger.WithPrefix("service"),
		expanded: compose.NewViewState(),
	}
}

// SetSupplier registers the snapshot source used by Reload
func (s *TopologyService) SetSupplier(supplier Supplier) {
	s.supplier = supplier
}

// SetStaticAlerts registers alerts that are reported alongside the ones
// derived from device status. Demo mode uses this for its canned feed.
func (s *TopologyService) SetStaticAlerts(alerts []domain.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extra = alerts
}

// Bootstrap seeds the service from the most recent persisted snapshot, if
// any. It is called once at startup, before the supplier runs, so a
// restart serves the last known topology immediately.
func (s *TopologyService) Bootstrap(ctx context.Context) error {
	topo, err := s.repo.LatestSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("loading latest snapshot: %w", err)
	}
	if topo == nil {
		s.logger.Info("no persisted snapshot, waiting for first refresh")
		return nil
	}

	s.mu.Lock()
	s.topo = topo
	s.mu.Unlock()

	s.logger.Info("restored snapshot", "version", topo.Version, "devices", topo.TotalDevices)
	return nil
}

// Refresh publishes a new snapshot. The snapshot is assigned a fresh
// version, persisted, and announced on the event bus. Persistence failures
// are logged but do not prevent the snapshot from going live.
func (s *TopologyService) Refresh(ctx context.Context, topo *domain.Topology) error {
	if topo == nil {
		return errors.New("refresh with nil topology")
	}

	topo.Version = uuid.NewString()
	topo.Summarize()

	if err := s.repo.SaveSnapshot(ctx, topo); err != nil {
		s.logger.Warn("snapshot not persisted", "err", err)
	} else if err := s.repo.Prune(ctx, snapshotsToKeep); err != nil {
		s.logger.Warn("snapshot prune failed", "err", err)
	}

	s.mu.Lock()
	previous := s.topo
	s.topo = topo
	s.mu.Unlock()

	s.eventBus.Publish(Event{
		Type: EventTopologyRefreshed,
		Payload: map[string]interface{}{
			"version": topo.Version,
			"devices": topo.TotalDevices,
		},
	})
	s.publishStatusChanges(previous, topo)
	s.publishGraphUpdated()

	s.logger.Info("snapshot refreshed", "version", topo.Version,
		"devices", topo.TotalDevices, "clusters", len(topo.Clusters))
	return nil
}

// Reload pulls a fresh snapshot from the registered supplier and publishes
// it.
func (s *TopologyService) Reload(ctx context.Context) error {
	if s.supplier == nil {
		return errors.New("no topology supplier configured")
	}
	topo, err := s.supplier(ctx)
	if err != nil {
		return fmt.Errorf("supplier failed: %w", err)
	}
	return s.Refresh(ctx, topo)
}

// Topology returns the current snapshot
func (s *TopologyService) Topology() (*domain.Topology, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.topo == nil {
		return nil, ErrNoSnapshot
	}
	return s.topo, nil
}

// Toggle flips the expansion state of a cluster and reports whether it is
// expanded afterwards. Unknown cluster ids are accepted; they simply have
// no effect on projection until a matching cluster appears.
func (s *TopologyService) Toggle(clusterID string) bool {
	s.mu.Lock()
	nowExpanded := s.expanded.Toggle(clusterID)
	s.mu.Unlock()

	s.eventBus.Publish(Event{
		Type: EventClusterToggled,
		Payload: map[string]interface{}{
			"cluster_id": clusterID,
			"expanded":   nowExpanded,
		},
	})
	s.publishGraphUpdated()
	return nowExpanded
}

// Expanded returns the expanded cluster ids in lexical order
func (s *TopologyService) Expanded() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expanded.Sorted()
}

// SetExpanded replaces the whole expansion set. Used by the debug surface.
func (s *TopologyService) SetExpanded(ids []string) {
	s.mu.Lock()
	s.expanded = compose.NewViewState()
	for _, id := range ids {
		s.expanded[id] = struct{}{}
	}
	s.mu.Unlock()
	s.publishGraphUpdated()
}

// Graph composes the renderable graph for the current snapshot and view
// state.
func (s *TopologyService) Graph() (*compose.Graph, error) {
	topo, expanded, err := s.inputs()
	if err != nil {
		return nil, err
	}
	return compose.Compose(topo, expanded), nil
}

// GraphJSON returns the composed graph serialized as JSON, cached under
// its structural hash. Because composition is pure, a hash hit can serve
// the cached bytes without recomposing.
func (s *TopologyService) GraphJSON(ctx context.Context) ([]byte, error) {
	topo, expanded, err := s.inputs()
	if err != nil {
		return nil, err
	}

	key := "graph:" + compose.StructuralHash(topo, expanded)
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return data, nil
	} else if err != nil {
		s.logger.Warn("graph cache read failed", "err", err)
	}

	graph := compose.Compose(topo, expanded)
	data, err := json.Marshal(graph)
	if err != nil {
		return nil, fmt.Errorf("encoding graph: %w", err)
	}

	if err := s.cache.Set(ctx, key, data, graphCacheTTL); err != nil {
		s.logger.Warn("graph cache write failed", "err", err)
	}
	return data, nil
}

// Alerts returns active alerts: one derived per non-up device, plus any
// statically registered alerts. The computed list is cached per snapshot
// version; a refresh naturally rolls the key over.
func (s *TopologyService) Alerts(ctx context.Context) ([]domain.Alert, error) {
	s.mu.RLock()
	topo := s.topo
	extra := s.extra
	s.mu.RUnlock()
	if topo == nil {
		return nil, ErrNoSnapshot
	}

	key := "alerts:" + topo.Version
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var alerts []domain.Alert
		if err := json.Unmarshal(data, &alerts); err == nil {
			return alerts, nil
		}
	} else if err != nil {
		s.logger.Warn("alert cache read failed", "err", err)
	}

	alerts := make([]domain.Alert, 0, len(extra))
	for _, id := range sortedDeviceIDs(topo) {
		d := topo.Devices[id]
		switch d.Status {
		case domain.DeviceStatusDown:
			alerts = append(alerts, deviceAlert(d, domain.SeverityCritical, "Device unreachable"))
		case domain.DeviceStatusDegraded:
			alerts = append(alerts, deviceAlert(d, domain.SeverityWarning, "Device degraded"))
		}
	}
	alerts = append(alerts, extra...)

	if data, err := json.Marshal(alerts); err == nil {
		if err := s.cache.Set(ctx, key, data, alertCacheTTL); err != nil {
			s.logger.Warn("alert cache write failed", "err", err)
		}
	}
	return alerts, nil
}

// State reports a diagnostic summary of the service's internals
func (s *TopologyService) State() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := map[string]interface{}{
		"has_snapshot": s.topo != nil,
		"expanded":     s.expanded.Sorted(),
	}
	if s.topo != nil {
		state["version"] = s.topo.Version
		state["devices"] = s.topo.TotalDevices
		state["clusters"] = len(s.topo.Clusters)
		state["hash"] = compose.StructuralHash(s.topo, s.expanded)
	}
	return state
}

// Snapshots lists persisted snapshot summaries, newest first
func (s *TopologyService) Snapshots(ctx context.Context, limit int) ([]repository.SnapshotInfo, error) {
	return s.repo.ListSnapshots(ctx, limit)
}

// inputs returns a consistent (snapshot, expansion) pair. The view state
// is cloned so composition never races a concurrent toggle.
func (s *TopologyService) inputs() (*domain.Topology, compose.ViewState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.topo == nil {
		return nil, nil, ErrNoSnapshot
	}
	return s.topo, s.expanded.Clone(), nil
}

// publishStatusChanges emits one event per device whose status differs
// from the previous snapshot, so clients can update a single device
// without refetching the topology.
func (s *TopologyService) publishStatusChanges(previous, current *domain.Topology) {
	if previous == nil {
		return
	}
	for _, id := range sortedDeviceIDs(current) {
		d := current.Devices[id]
		prev, ok := previous.Devices[id]
		if !ok || prev.Status == d.Status {
			continue
		}
		s.eventBus.Publish(Event{
			Type: EventDeviceStatusChanged,
			Payload: map[string]interface{}{
				"device_id": id,
				"status":    d.Status,
				"previous":  prev.Status,
			},
		})
	}
}

func (s *TopologyService) publishGraphUpdated() {
	s.mu.RLock()
	topo := s.topo
	expanded := s.expanded
	var hash string
	if topo != nil {
		hash = compose.StructuralHash(topo, expanded)
	}
	s.mu.RUnlock()

	if topo == nil {
		return
	}
	s.eventBus.Publish(Event{
		Type: EventGraphUpdated,
		Payload: map[string]interface{}{
			"version": topo.Version,
			"hash":    hash,
		},
	})
}

func deviceAlert(d domain.Device, severity domain.AlertSeverity, message string) domain.Alert {
	return domain.Alert{
		ID:        "device-" + d.ID,
		DeviceID:  d.ID,
		Severity:  severity,
		Message:   fmt.Sprintf("%s: %s", message, d.DisplayName),
		Status:    "active",
		Timestamp: time.Now(),
	}
}

func sortedDeviceIDs(t *domain.Topology) []string {
	ids := make([]string, 0, len(t.Devices))
	for id := range t.Devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
