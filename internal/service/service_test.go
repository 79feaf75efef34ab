package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"watchtower/internal/cache"
	"watchtower/internal/domain"
	"watchtower/internal/repository"
)

// fakeRepo is an in-memory Repository for service tests
type fakeRepo struct {
	latest  *domain.Topology
	saves   int
	saveErr error
}

func (f *fakeRepo) SaveSnapshot(ctx context.Context, topo *domain.Topology) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.latest = topo
	f.saves++
	return nil
}

func (f *fakeRepo) LatestSnapshot(ctx context.Context) (*domain.Topology, error) {
	return f.latest, nil
}

func (f *fakeRepo) ListSnapshots(ctx context.Context, limit int) ([]repository.SnapshotInfo, error) {
	if f.latest == nil {
		return nil, nil
	}
	return []repository.SnapshotInfo{{Version: f.latest.Version, DeviceCount: f.latest.TotalDevices}}, nil
}

func (f *fakeRepo) Prune(ctx context.Context, keep int) error { return nil }
func (f *fakeRepo) Clear(ctx context.Context) error           { f.latest = nil; return nil }
func (f *fakeRepo) Close() error                              { return nil }

func testTopology() *domain.Topology {
	topo := domain.NewTopology()
	topo.Clusters = []domain.Cluster{
		{ID: "edge", Name: "Edge", Position: domain.Position{X: 100, Y: 100}, DeviceIDs: []string{"r1", "r2"}},
		{ID: "access", Name: "Access", Position: domain.Position{X: 300, Y: 100}, DeviceIDs: []string{"s1"}},
	}
	topo.Devices["r1"] = domain.Device{ID: "r1", DisplayName: "Router 1", Status: domain.DeviceStatusUp, ClusterID: "edge"}
	topo.Devices["r2"] = domain.Device{ID: "r2", DisplayName: "Router 2", Status: domain.DeviceStatusDegraded, ClusterID: "edge"}
	topo.Devices["s1"] = domain.Device{ID: "s1", DisplayName: "Switch 1", Status: domain.DeviceStatusUp, ClusterID: "access"}
	topo.Connections = []domain.Connection{
		{ID: "c1", Source: domain.Endpoint{Device: "r1"}, Target: domain.Endpoint{Device: "s1"}, Status: domain.ConnStatusUp},
	}
	return topo
}

func newTestService(t *testing.T, repo *fakeRepo) *TopologyService {
	t.Helper()
	logger := log.New(io.Discard)
	return NewTopologyService(repo, cache.NewMemoryCache(), NewEventBus(), logger)
}

func TestReadsBeforeFirstSnapshot(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	if _, err := svc.Topology(); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Topology error = %v, want ErrNoSnapshot", err)
	}
	if _, err := svc.Graph(); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Graph error = %v, want ErrNoSnapshot", err)
	}
	if _, err := svc.GraphJSON(context.Background()); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("GraphJSON error = %v, want ErrNoSnapshot", err)
	}
	if _, err := svc.Alerts(context.Background()); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Alerts error = %v, want ErrNoSnapshot", err)
	}
}

func TestRefreshPublishesAndPersists(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	events := make(chan Event, 16)
	svc.eventBus.Subscribe(events)

	if err := svc.Refresh(context.Background(), testTopology()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	topo, err := svc.Topology()
	if err != nil {
		t.Fatalf("Topology after refresh: %v", err)
	}
	if topo.Version == "" {
		t.Error("refresh did not assign a version")
	}
	if topo.TotalDevices != 3 {
		t.Errorf("TotalDevices = %d, want 3", topo.TotalDevices)
	}
	if repo.saves != 1 {
		t.Errorf("repo saves = %d, want 1", repo.saves)
	}

	var types []EventType
	for len(events) > 0 {
		types = append(types, (<-events).Type)
	}
	if len(types) != 2 || types[0] != EventTopologyRefreshed || types[1] != EventGraphUpdated {
		t.Errorf("events = %v, want [topology_refreshed graph_updated]", types)
	}
}

func TestRefreshAssignsDistinctVersions(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})
	ctx := context.Background()

	if err := svc.Refresh(ctx, testTopology()); err != nil {
		t.Fatal(err)
	}
	first, _ := svc.Topology()
	v1 := first.Version

	if err := svc.Refresh(ctx, testTopology()); err != nil {
		t.Fatal(err)
	}
	second, _ := svc.Topology()

	if second.Version == v1 {
		t.Error("successive refreshes produced the same version")
	}
}

func TestRefreshSurvivesPersistenceFailure(t *testing.T) {
	repo := &fakeRepo{saveErr: errors.New("disk full")}
	svc := newTestService(t, repo)

	if err := svc.Refresh(context.Background(), testTopology()); err != nil {
		t.Fatalf("Refresh should tolerate save failure, got %v", err)
	}
	if _, err := svc.Topology(); err != nil {
		t.Errorf("snapshot should be live despite save failure, got %v", err)
	}
}

func TestBootstrapRestoresSnapshot(t *testing.T) {
	topo := testTopology()
	topo.Version = "restored"
	topo.Summarize()
	repo := &fakeRepo{latest: topo}
	svc := newTestService(t, repo)

	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	got, err := svc.Topology()
	if err != nil {
		t.Fatalf("Topology after bootstrap: %v", err)
	}
	if got.Version != "restored" {
		t.Errorf("version = %q, want restored", got.Version)
	}
}

func TestBootstrapEmptyRepo(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap with empty repo: %v", err)
	}
	if _, err := svc.Topology(); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Topology error = %v, want ErrNoSnapshot", err)
	}
}

func TestToggleRoundTrip(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	if !svc.Toggle("edge") {
		t.Error("first toggle should expand")
	}
	if got := svc.Expanded(); len(got) != 1 || got[0] != "edge" {
		t.Errorf("Expanded = %v, want [edge]", got)
	}
	if svc.Toggle("edge") {
		t.Error("second toggle should collapse")
	}
	if got := svc.Expanded(); len(got) != 0 {
		t.Errorf("Expanded = %v, want empty", got)
	}
}

func TestToggleChangesComposition(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})
	if err := svc.Refresh(context.Background(), testTopology()); err != nil {
		t.Fatal(err)
	}

	collapsed, err := svc.Graph()
	if err != nil {
		t.Fatal(err)
	}
	if len(collapsed.Nodes) != 2 {
		t.Fatalf("collapsed nodes = %d, want 2", len(collapsed.Nodes))
	}

	svc.Toggle("edge")
	expanded, err := svc.Graph()
	if err != nil {
		t.Fatal(err)
	}
	// edge expands into r1, r2, plus the collapsed access cluster
	if len(expanded.Nodes) != 3 {
		t.Errorf("expanded nodes = %d, want 3", len(expanded.Nodes))
	}
}

func TestGraphJSONCaching(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})
	ctx := context.Background()
	if err := svc.Refresh(ctx, testTopology()); err != nil {
		t.Fatal(err)
	}

	first, err := svc.GraphJSON(ctx)
	if err != nil {
		t.Fatalf("GraphJSON: %v", err)
	}
	second, err := svc.GraphJSON(ctx)
	if err != nil {
		t.Fatalf("GraphJSON (cached): %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("cached graph differs from composed graph")
	}

	svc.Toggle("edge")
	toggled, err := svc.GraphJSON(ctx)
	if err != nil {
		t.Fatalf("GraphJSON after toggle: %v", err)
	}
	if bytes.Equal(first, toggled) {
		t.Error("toggle did not invalidate the composed graph")
	}
}

func TestAlertsDerivedFromStatus(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})
	topo := testTopology()
	d := topo.Devices["s1"]
	d.Status = domain.DeviceStatusDown
	topo.Devices["s1"] = d
	if err := svc.Refresh(context.Background(), topo); err != nil {
		t.Fatal(err)
	}
	svc.SetStaticAlerts([]domain.Alert{{ID: "canned-1", Severity: domain.SeverityInfo, Message: "hello"}})

	alerts, err := svc.Alerts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(alerts) != 3 {
		t.Fatalf("alerts = %d, want 3 (degraded + down + static)", len(alerts))
	}

	bySeverity := map[domain.AlertSeverity]int{}
	for _, a := range alerts {
		bySeverity[a.Severity]++
	}
	if bySeverity[domain.SeverityCritical] != 1 || bySeverity[domain.SeverityWarning] != 1 || bySeverity[domain.SeverityInfo] != 1 {
		t.Errorf("severity counts = %v", bySeverity)
	}
}

func TestAlertsServedFromCache(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})
	ctx := context.Background()
	if err := svc.Refresh(ctx, testTopology()); err != nil {
		t.Fatal(err)
	}

	first, err := svc.Alerts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	topo, _ := svc.Topology()
	if _, ok, _ := svc.cache.Get(ctx, "alerts:"+topo.Version); !ok {
		t.Fatal("first call did not populate the alert cache")
	}

	// Plant a marker entry under the same key; a second call must return
	// it rather than recompute.
	planted, _ := json.Marshal([]domain.Alert{{ID: "planted", Message: "from cache"}})
	if err := svc.cache.Set(ctx, "alerts:"+topo.Version, planted, 0); err != nil {
		t.Fatal(err)
	}
	second, err := svc.Alerts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != 1 || second[0].ID != "planted" {
		t.Errorf("second call bypassed the cache: %v (first was %d alerts)", second, len(first))
	}
}

func TestRefreshPublishesDeviceStatusChanges(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})
	ctx := context.Background()
	if err := svc.Refresh(ctx, testTopology()); err != nil {
		t.Fatal(err)
	}

	events := make(chan Event, 16)
	svc.eventBus.Subscribe(events)

	next := testTopology()
	d := next.Devices["r2"]
	d.Status = domain.DeviceStatusUp // was degraded
	next.Devices["r2"] = d
	if err := svc.Refresh(ctx, next); err != nil {
		t.Fatal(err)
	}

	var changes []Event
	for len(events) > 0 {
		if e := <-events; e.Type == EventDeviceStatusChanged {
			changes = append(changes, e)
		}
	}
	if len(changes) != 1 {
		t.Fatalf("device_status_changed events = %d, want 1", len(changes))
	}
	payload := changes[0].Payload.(map[string]interface{})
	if payload["device_id"] != "r2" {
		t.Errorf("device_id = %v, want r2", payload["device_id"])
	}
	if payload["status"] != domain.DeviceStatusUp || payload["previous"] != domain.DeviceStatusDegraded {
		t.Errorf("status transition = %v -> %v", payload["previous"], payload["status"])
	}
}

func TestReloadUsesSupplier(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})
	ctx := context.Background()

	if err := svc.Reload(ctx); err == nil {
		t.Error("Reload without supplier should fail")
	}

	calls := 0
	svc.SetSupplier(func(ctx context.Context) (*domain.Topology, error) {
		calls++
		return testTopology(), nil
	})
	if err := svc.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if calls != 1 {
		t.Errorf("supplier calls = %d, want 1", calls)
	}
	if _, err := svc.Topology(); err != nil {
		t.Errorf("Topology after reload: %v", err)
	}

	svc.SetSupplier(func(ctx context.Context) (*domain.Topology, error) {
		return nil, errors.New("boom")
	})
	if err := svc.Reload(ctx); err == nil {
		t.Error("Reload should surface supplier errors")
	}
}

func TestSetExpandedReplacesState(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})
	svc.Toggle("edge")
	svc.SetExpanded([]string{"access", "wireless"})

	got := svc.Expanded()
	if len(got) != 2 || got[0] != "access" || got[1] != "wireless" {
		t.Errorf("Expanded = %v, want [access wireless]", got)
	}
}

func TestState(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	state := svc.State()
	if state["has_snapshot"] != false {
		t.Error("has_snapshot should be false before refresh")
	}

	if err := svc.Refresh(context.Background(), testTopology()); err != nil {
		t.Fatal(err)
	}
	svc.Toggle("edge")

	state = svc.State()
	if state["has_snapshot"] != true {
		t.Error("has_snapshot should be true after refresh")
	}
	if state["hash"] == "" {
		t.Error("state should include the structural hash")
	}
}
