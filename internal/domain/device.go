package domain

import "time"

// DeviceType classifies a network device
type DeviceType string

const (
	DeviceTypeSwitch      DeviceType = "switch"
	DeviceTypeRouter      DeviceType = "router"
	DeviceTypeFirewall    DeviceType = "firewall"
	DeviceTypeServer      DeviceType = "server"
	DeviceTypeAccessPoint DeviceType = "access_point"
	DeviceTypeUnknown     DeviceType = "unknown"
)

// DeviceStatus represents the operational state of a device
type DeviceStatus string

const (
	DeviceStatusUp       DeviceStatus = "up"
	DeviceStatusDown     DeviceStatus = "down"
	DeviceStatusDegraded DeviceStatus = "degraded"
	DeviceStatusUnknown  DeviceStatus = "unknown"
)

// DeviceStats holds basic resource metrics for a device
type DeviceStats struct {
	CPU    float64 `json:"cpu" yaml:"cpu"`
	Memory float64 `json:"memory" yaml:"memory"`
	Uptime int64   `json:"uptime" yaml:"uptime"`
}

// Device represents an individually addressable network element.
// Every device belongs to exactly one cluster via ClusterID.
type Device struct {
	ID          string       `json:"id" yaml:"id"`
	DisplayName string       `json:"display_name" yaml:"display_name"`
	Model       string       `json:"model,omitempty" yaml:"model,omitempty"`
	DeviceType  DeviceType   `json:"device_type" yaml:"device_type"`
	IP          string       `json:"ip,omitempty" yaml:"ip,omitempty"`
	Location    string       `json:"location,omitempty" yaml:"location,omitempty"`
	Status      DeviceStatus `json:"status" yaml:"status"`
	ClusterID   string       `json:"cluster_id" yaml:"cluster_id"`
	Stats       *DeviceStats `json:"stats,omitempty" yaml:"stats,omitempty"`
	LastSeen    *time.Time   `json:"last_seen,omitempty" yaml:"last_seen,omitempty"`
}

// IsUp reports whether the device is fully operational
func (d *Device) IsUp() bool {
	return d.Status == DeviceStatusUp
}
