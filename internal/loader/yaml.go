// Package loader reads the declarative topology description from YAML.
//
// The file is the static source of truth for clusters, devices,
// connections and external links. Live state (device status, utilization)
// is layered on top by whichever supplier refreshes snapshots; the loader
// only fills structural defaults and never rejects referentially
// incomplete data — defensive filtering happens at composition time.
package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"watchtower/internal/domain"
)

// TopologyYAML is the on-disk file structure
type TopologyYAML struct {
	Version       string             `yaml:"version"`
	Clusters      []ClusterYAML      `yaml:"clusters"`
	Devices       []DeviceYAML       `yaml:"devices"`
	Connections   []ConnectionYAML   `yaml:"connections"`
	ExternalLinks []ExternalLinkYAML `yaml:"external_links"`
}

// ClusterYAML represents a cluster entry
type ClusterYAML struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	ClusterType string   `yaml:"cluster_type"`
	Icon        string   `yaml:"icon"`
	X           float64  `yaml:"x"`
	Y           float64  `yaml:"y"`
	DeviceIDs   []string `yaml:"device_ids"`
}

// DeviceYAML represents a device entry
type DeviceYAML struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	DeviceType  string `yaml:"type"`
	Cluster     string `yaml:"cluster"`
	IP          string `yaml:"ip"`
	Model       string `yaml:"model"`
	Location    string `yaml:"location"`
	Status      string `yaml:"status"`
}

// EndpointYAML represents one end of a connection or external link
type EndpointYAML struct {
	Device string `yaml:"device"`
	Port   string `yaml:"port"`
	Label  string `yaml:"label"`
}

// ConnectionYAML represents a device-to-device link entry
type ConnectionYAML struct {
	ID     string       `yaml:"id"`
	Source EndpointYAML `yaml:"source"`
	Target EndpointYAML `yaml:"target"`
	Type   string       `yaml:"type"`
	Speed  int          `yaml:"speed"`
	Status string       `yaml:"status"`
}

// ExternalLinkYAML represents an external circuit entry
type ExternalLinkYAML struct {
	ID       string       `yaml:"id"`
	Source   EndpointYAML `yaml:"source"`
	Label    string       `yaml:"label"`
	Type     string       `yaml:"type"`
	Icon     string       `yaml:"icon"`
	Provider string       `yaml:"provider"`
	Speed    int          `yaml:"speed"`
}

// LoadYAML loads a topology snapshot from a YAML file
func LoadYAML(path string) (*domain.Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topology file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML parses a topology snapshot from YAML bytes
func ParseYAML(data []byte) (*domain.Topology, error) {
	var file TopologyYAML
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse topology yaml: %w", err)
	}
	return convert(&file), nil
}

func convert(file *TopologyYAML) *domain.Topology {
	topo := domain.NewTopology()
	topo.Version = file.Version

	for _, d := range file.Devices {
		status := domain.DeviceStatus(d.Status)
		if status == "" {
			status = domain.DeviceStatusUnknown
		}
		deviceType := domain.DeviceType(d.DeviceType)
		if deviceType == "" {
			deviceType = domain.DeviceTypeUnknown
		}
		name := d.Name
		if name == "" {
			name = d.ID
		}
		topo.Devices[d.ID] = domain.Device{
			ID:          d.ID,
			DisplayName: name,
			Model:       d.Model,
			DeviceType:  deviceType,
			IP:          d.IP,
			Location:    d.Location,
			Status:      status,
			ClusterID:   d.Cluster,
		}
	}

	for _, c := range file.Clusters {
		cluster := domain.Cluster{
			ID:          c.ID,
			Name:        c.Name,
			ClusterType: domain.ClusterType(c.ClusterType),
			Icon:        c.Icon,
			Position:    domain.Position{X: c.X, Y: c.Y},
			DeviceIDs:   c.DeviceIDs,
			Status:      "active",
		}
		if len(cluster.DeviceIDs) == 0 {
			cluster.DeviceIDs = memberIDs(file.Devices, c.ID)
		}
		topo.Clusters = append(topo.Clusters, cluster)
	}

	for i, c := range file.Connections {
		id := c.ID
		if id == "" {
			id = fmt.Sprintf("conn-%d", i)
		}
		status := domain.ConnectionStatus(c.Status)
		if status == "" {
			status = domain.ConnStatusUp
		}
		topo.Connections = append(topo.Connections, domain.Connection{
			ID:             id,
			Source:         domain.Endpoint{Device: c.Source.Device, Port: c.Source.Port, Label: c.Source.Label},
			Target:         domain.Endpoint{Device: c.Target.Device, Port: c.Target.Port, Label: c.Target.Label},
			ConnectionType: domain.ConnectionType(c.Type),
			SpeedMbps:      c.Speed,
			Status:         status,
		})
	}

	for i, l := range file.ExternalLinks {
		id := l.ID
		if id == "" {
			id = fmt.Sprintf("ext-%d", i)
		}
		icon := l.Icon
		if icon == "" {
			if l.Type == "cloud" {
				icon = "cloud"
			} else {
				icon = "building"
			}
		}
		topo.ExternalLinks = append(topo.ExternalLinks, domain.ExternalLink{
			ID:     id,
			Source: domain.Endpoint{Device: l.Source.Device, Port: l.Source.Port, Label: l.Source.Label},
			Target: domain.ExternalTarget{
				Label: l.Label,
				Type:  l.Type,
				Icon:  icon,
			},
			Provider:  l.Provider,
			SpeedMbps: l.Speed,
			Status:    domain.ConnStatusUp,
		})
	}

	topo.Summarize()
	return topo
}

// memberIDs derives a cluster's member list from device cluster fields,
// preserving device declaration order.
func memberIDs(devices []DeviceYAML, clusterID string) []string {
	ids := make([]string, 0)
	for _, d := range devices {
		if d.Cluster == clusterID {
			ids = append(ids, d.ID)
		}
	}
	return ids
}
