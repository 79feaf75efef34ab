// Package demo generates a self-contained fake topology for demo mode.
//
// The data does not depend on a topology file or any external system and
// is deterministic: Generate seeds its own RNG, so repeated calls produce
// identical snapshots for consistent UI testing.
package demo

import (
	"fmt"
	"math/rand"
	"time"

	"watchtower/internal/domain"
)

const seed = 42

type clusterDef struct {
	id, name    string
	clusterType domain.ClusterType
	icon        string
	x, y        float64
}

type deviceDef struct {
	id, name   string
	deviceType domain.DeviceType
	cluster    string
	ip, model  string
}

type connDef struct {
	source, target string
	speed          int
	connType       domain.ConnectionType
}

type externalDef struct {
	id, source, port, label, linkType, provider string
	speed                                       int
}

var demoClusters = []clusterDef{
	{"core", "Core Network", domain.ClusterTypeNetwork, "switch", 400, 100},
	{"distribution", "Distribution", domain.ClusterTypeNetwork, "switch", 400, 250},
	{"firewalls", "Firewalls", domain.ClusterTypeFirewall, "shield", 150, 100},
	{"servers", "Servers", domain.ClusterTypeServer, "server", 650, 250},
	{"hypervisors", "Hypervisors", domain.ClusterTypeServer, "server", 650, 100},
	{"wireless", "Access Points", domain.ClusterTypeWireless, "wifi", 400, 400},
}

var demoDevices = []deviceDef{
	{"core-sw-1", "Core Switch 1", domain.DeviceTypeSwitch, "core", "10.10.1.1", "Cisco C9300-48UXM"},
	{"core-sw-2", "Core Switch 2", domain.DeviceTypeSwitch, "core", "10.10.1.2", "Cisco C9300-48UXM"},

	{"dist-sw-1", "Dist Switch 1", domain.DeviceTypeSwitch, "distribution", "10.10.2.1", "Cisco C9200-24P"},
	{"dist-sw-2", "Dist Switch 2", domain.DeviceTypeSwitch, "distribution", "10.10.2.2", "Cisco C9200-24P"},
	{"dist-sw-3", "Dist Switch 3", domain.DeviceTypeSwitch, "distribution", "10.10.2.3", "Cisco C9200-48P"},

	{"fw-edge-1", "Edge Firewall 1", domain.DeviceTypeFirewall, "firewalls", "10.10.0.1", "Palo Alto PA-3410"},
	{"fw-edge-2", "Edge Firewall 2", domain.DeviceTypeFirewall, "firewalls", "10.10.0.2", "Palo Alto PA-3410"},

	{"srv-web-1", "Web Server 1", domain.DeviceTypeServer, "servers", "10.10.10.10", "Dell PowerEdge R750"},
	{"srv-db-1", "Database Server", domain.DeviceTypeServer, "servers", "10.10.10.20", "Dell PowerEdge R750"},
	{"srv-app-1", "App Server 1", domain.DeviceTypeServer, "servers", "10.10.10.30", "Dell PowerEdge R650"},
	{"srv-backup-1", "Backup Server", domain.DeviceTypeServer, "servers", "10.10.10.40", "Synology RS3621xs+"},

	{"hv-prod-1", "Proxmox Node 1", domain.DeviceTypeServer, "hypervisors", "10.10.5.1", "Dell PowerEdge R750xs"},
	{"hv-prod-2", "Proxmox Node 2", domain.DeviceTypeServer, "hypervisors", "10.10.5.2", "Dell PowerEdge R750xs"},
	{"hv-dev-1", "Proxmox Dev", domain.DeviceTypeServer, "hypervisors", "10.10.5.10", "Dell PowerEdge R650"},

	{"ap-lobby", "AP Lobby", domain.DeviceTypeAccessPoint, "wireless", "10.10.20.1", "Cisco Meraki MR46"},
	{"ap-floor2", "AP Floor 2", domain.DeviceTypeAccessPoint, "wireless", "10.10.20.2", "Cisco Meraki MR46"},
	{"ap-floor3", "AP Floor 3", domain.DeviceTypeAccessPoint, "wireless", "10.10.20.3", "Cisco Meraki MR46"},
}

var demoConnections = []connDef{
	{"fw-edge-1", "core-sw-1", 10000, domain.ConnTypeUplink},
	{"fw-edge-2", "core-sw-2", 10000, domain.ConnTypeUplink},

	{"core-sw-1", "core-sw-2", 40000, domain.ConnTypeStack},

	{"core-sw-1", "dist-sw-1", 10000, domain.ConnTypeTrunk},
	{"core-sw-1", "dist-sw-2", 10000, domain.ConnTypeTrunk},
	{"core-sw-2", "dist-sw-2", 10000, domain.ConnTypeTrunk},
	{"core-sw-2", "dist-sw-3", 10000, domain.ConnTypeTrunk},

	{"dist-sw-1", "srv-web-1", 1000, domain.ConnTypeAccess},
	{"dist-sw-1", "srv-db-1", 10000, domain.ConnTypeAccess},
	{"dist-sw-2", "srv-app-1", 1000, domain.ConnTypeAccess},
	{"dist-sw-3", "srv-backup-1", 10000, domain.ConnTypeAccess},

	{"dist-sw-1", "hv-prod-1", 10000, domain.ConnTypeAccess},
	{"dist-sw-2", "hv-prod-2", 10000, domain.ConnTypeAccess},
	{"dist-sw-3", "hv-dev-1", 10000, domain.ConnTypeAccess},

	{"dist-sw-2", "ap-lobby", 1000, domain.ConnTypeAccess},
	{"dist-sw-2", "ap-floor2", 1000, domain.ConnTypeAccess},
	{"dist-sw-3", "ap-floor3", 1000, domain.ConnTypeAccess},
}

var demoExternalLinks = []externalDef{
	{"wan-primary", "fw-edge-1", "eth1/1", "ISP-Primary", "cloud", "Comcast Business", 500},
	{"wan-backup", "fw-edge-2", "eth1/1", "ISP-Backup", "cloud", "AT&T Business", 100},
	{"wan-remote", "core-sw-1", "Te1/1/1", "Remote Office", "campus", "MPLS", 100},
}

// Generate builds the complete demo topology with devices, connections
// and fake utilization stats.
func Generate() *domain.Topology {
	rng := rand.New(rand.NewSource(seed))
	topo := domain.NewTopology()
	topo.Version = "demo"

	for _, c := range demoClusters {
		ids := make([]string, 0)
		for _, d := range demoDevices {
			if d.cluster == c.id {
				ids = append(ids, d.id)
			}
		}
		topo.Clusters = append(topo.Clusters, domain.Cluster{
			ID:          c.id,
			Name:        c.name,
			ClusterType: c.clusterType,
			Icon:        c.icon,
			Position:    domain.Position{X: c.x, Y: c.y},
			DeviceIDs:   ids,
			Status:      "active",
		})
	}

	for _, d := range demoDevices {
		cpu := 5 + rng.Float64()*80
		memory := 20 + rng.Float64()*55

		status := domain.DeviceStatusUp
		if d.id == "srv-db-1" {
			// One degraded device so the demo dashboard has an alert.
			status = domain.DeviceStatusDegraded
			cpu = 92.5
		}

		lastSeen := time.Now().Add(-time.Duration(10+rng.Intn(290)) * time.Second)
		topo.Devices[d.id] = domain.Device{
			ID:          d.id,
			DisplayName: d.name,
			Model:       d.model,
			DeviceType:  d.deviceType,
			IP:          d.ip,
			Location:    "Demo Datacenter",
			Status:      status,
			ClusterID:   d.cluster,
			Stats: &domain.DeviceStats{
				CPU:    round1(cpu),
				Memory: round1(memory),
				Uptime: int64(86400 + rng.Intn(86400*89)),
			},
			LastSeen: &lastSeen,
		}
	}

	for i, c := range demoConnections {
		utilization := 5 + rng.Float64()*40
		inBps := int64(utilization / 100 * float64(c.speed) * 1_000_000)
		outBps := int64(float64(inBps) * (0.5 + rng.Float64()))

		topo.Connections = append(topo.Connections, domain.Connection{
			ID:             fmt.Sprintf("demo-conn-%d", i),
			Source:         domain.Endpoint{Device: c.source, Port: fmt.Sprintf("Gi1/0/%d", i+1)},
			Target:         domain.Endpoint{Device: c.target, Port: fmt.Sprintf("Gi1/0/%d", i+1)},
			ConnectionType: c.connType,
			SpeedMbps:      c.speed,
			Status:         domain.ConnStatusUp,
			Utilization:    round1(utilization),
			InBps:          inBps,
			OutBps:         outBps,
		})
	}

	for _, e := range demoExternalLinks {
		icon := "building"
		if e.linkType == "cloud" {
			icon = "cloud"
		}
		topo.ExternalLinks = append(topo.ExternalLinks, domain.ExternalLink{
			ID:          e.id,
			Source:      domain.Endpoint{Device: e.source, Port: e.port},
			Target:      domain.ExternalTarget{Label: e.label, Type: e.linkType, Icon: icon},
			Provider:    e.provider,
			SpeedMbps:   e.speed,
			Status:      domain.ConnStatusUp,
			Utilization: round1(10 + rng.Float64()*30),
		})
	}

	topo.Summarize()
	return topo
}

// Alerts returns the demo alert feed
func Alerts() []domain.Alert {
	now := time.Now()
	return []domain.Alert{
		{
			ID:        "demo-alert-1",
			DeviceID:  "srv-db-1",
			Severity:  domain.SeverityWarning,
			Message:   "High CPU utilization on Database Server",
			Details:   "CPU usage at 92.5% for the past 15 minutes",
			Status:    "active",
			Timestamp: now.Add(-15 * time.Minute),
		},
		{
			ID:        "demo-alert-2",
			DeviceID:  "srv-backup-1",
			Severity:  domain.SeverityInfo,
			Message:   "Backup completed successfully",
			Details:   "Nightly backup finished at 03:00 UTC",
			Status:    "active",
			Timestamp: now.Add(-6 * time.Hour),
		},
	}
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
