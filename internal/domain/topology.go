package domain

// Topology is a full snapshot of the monitored network. It is supplied
// wholesale by a topology source (file loader, demo generator) and treated
// as immutable once published; refreshes replace the whole snapshot.
type Topology struct {
	Version       string             `json:"version,omitempty" yaml:"version,omitempty"`
	Clusters      []Cluster          `json:"clusters" yaml:"clusters"`
	Devices       map[string]Device  `json:"devices" yaml:"devices"`
	Connections   []Connection       `json:"connections" yaml:"connections"`
	ExternalLinks []ExternalLink     `json:"external_links" yaml:"external_links"`

	// Rollup counters, recomputed by Summarize.
	TotalDevices    int `json:"total_devices" yaml:"-"`
	DevicesUp       int `json:"devices_up" yaml:"-"`
	DevicesDown     int `json:"devices_down" yaml:"-"`
	DegradedDevices int `json:"degraded_devices" yaml:"-"`
	ActiveAlerts    int `json:"active_alerts" yaml:"-"`
}

// NewTopology creates an empty topology with initialized collections
func NewTopology() *Topology {
	return &Topology{
		Clusters:      make([]Cluster, 0),
		Devices:       make(map[string]Device),
		Connections:   make([]Connection, 0),
		ExternalLinks: make([]ExternalLink, 0),
	}
}

// Cluster returns the cluster with the given id, or nil if absent
func (t *Topology) Cluster(id string) *Cluster {
	for i := range t.Clusters {
		if t.Clusters[i].ID == id {
			return &t.Clusters[i]
		}
	}
	return nil
}

// Device returns the device with the given id and whether it exists
func (t *Topology) Device(id string) (Device, bool) {
	d, ok := t.Devices[id]
	return d, ok
}

// ClusterDevices resolves a cluster's DeviceIDs against the device
// collection, preserving declared order and dropping ids that reference
// no known device.
func (t *Topology) ClusterDevices(c *Cluster) []Device {
	devices := make([]Device, 0, len(c.DeviceIDs))
	for _, id := range c.DeviceIDs {
		if d, ok := t.Devices[id]; ok {
			devices = append(devices, d)
		}
	}
	return devices
}

// Summarize recomputes the rollup counters from the device collection
func (t *Topology) Summarize() {
	t.TotalDevices = len(t.Devices)
	t.DevicesUp = 0
	t.DevicesDown = 0
	t.DegradedDevices = 0
	for _, d := range t.Devices {
		switch d.Status {
		case DeviceStatusUp:
			t.DevicesUp++
		case DeviceStatusDown:
			t.DevicesDown++
		case DeviceStatusDegraded:
			t.DegradedDevices++
		}
	}
	t.ActiveAlerts = t.DevicesDown + t.DegradedDevices
}
