package demo

import (
	"reflect"
	"testing"

	"watchtower/internal/domain"
)

func TestGenerateShape(t *testing.T) {
	topo := Generate()

	if got := len(topo.Clusters); got != 6 {
		t.Errorf("clusters = %d, want 6", got)
	}
	if got := len(topo.Devices); got != 17 {
		t.Errorf("devices = %d, want 17", got)
	}
	if got := len(topo.Connections); got != 17 {
		t.Errorf("connections = %d, want 17", got)
	}
	if got := len(topo.ExternalLinks); got != 3 {
		t.Errorf("external links = %d, want 3", got)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate()
	b := Generate()

	for id, da := range a.Devices {
		db, ok := b.Devices[id]
		if !ok {
			t.Fatalf("device %q missing from second run", id)
		}
		if da.Status != db.Status {
			t.Errorf("device %q status differs: %q vs %q", id, da.Status, db.Status)
		}
		if da.Stats.CPU != db.Stats.CPU {
			t.Errorf("device %q cpu differs: %v vs %v", id, da.Stats.CPU, db.Stats.CPU)
		}
	}
	for i := range a.Connections {
		if a.Connections[i].Utilization != b.Connections[i].Utilization {
			t.Errorf("connection %d utilization differs", i)
		}
	}
}

func TestGenerateMembership(t *testing.T) {
	topo := Generate()

	for _, c := range topo.Clusters {
		if len(c.DeviceIDs) == 0 {
			t.Errorf("cluster %q has no devices", c.ID)
		}
		for _, id := range c.DeviceIDs {
			d, ok := topo.Devices[id]
			if !ok {
				t.Errorf("cluster %q references unknown device %q", c.ID, id)
				continue
			}
			if d.ClusterID != c.ID {
				t.Errorf("device %q cluster = %q, want %q", id, d.ClusterID, c.ID)
			}
		}
	}
}

func TestGenerateReferences(t *testing.T) {
	topo := Generate()

	for _, conn := range topo.Connections {
		if _, ok := topo.Devices[conn.Source.Device]; !ok {
			t.Errorf("connection %q source %q not in topology", conn.ID, conn.Source.Device)
		}
		if _, ok := topo.Devices[conn.Target.Device]; !ok {
			t.Errorf("connection %q target %q not in topology", conn.ID, conn.Target.Device)
		}
	}
	for _, ext := range topo.ExternalLinks {
		if _, ok := topo.Devices[ext.Source.Device]; !ok {
			t.Errorf("external link %q source %q not in topology", ext.ID, ext.Source.Device)
		}
		if ext.Target.Label == "" {
			t.Errorf("external link %q has empty target label", ext.ID)
		}
	}
}

func TestGenerateDegradedDevice(t *testing.T) {
	topo := Generate()

	db, ok := topo.Devices["srv-db-1"]
	if !ok {
		t.Fatal("srv-db-1 missing")
	}
	if db.Status != domain.DeviceStatusDegraded {
		t.Errorf("srv-db-1 status = %q, want degraded", db.Status)
	}
	if db.Stats.CPU != 92.5 {
		t.Errorf("srv-db-1 cpu = %v, want 92.5", db.Stats.CPU)
	}
	if topo.DegradedDevices != 1 {
		t.Errorf("degraded rollup = %d, want 1", topo.DegradedDevices)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	orig := Generate()
	copied := snapshot(orig)

	if !reflect.DeepEqual(orig.Connections, copied.Connections) {
		t.Fatal("snapshot connections differ from source")
	}

	d := copied.Devices["srv-web-1"]
	d.Status = domain.DeviceStatusDown
	d.Stats.CPU = 99
	copied.Devices["srv-web-1"] = d
	copied.Connections[0].Utilization = 99

	if orig.Devices["srv-web-1"].Status == domain.DeviceStatusDown {
		t.Error("mutating snapshot device leaked into source")
	}
	if orig.Devices["srv-web-1"].Stats.CPU == 99 {
		t.Error("mutating snapshot stats leaked into source")
	}
	if orig.Connections[0].Utilization == 99 {
		t.Error("mutating snapshot connection leaked into source")
	}
}
