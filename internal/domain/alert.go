package domain

import "time"

// AlertSeverity ranks how urgent an alert is
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityWarning  AlertSeverity = "warning"
	SeverityInfo     AlertSeverity = "info"
)

// Alert is a notable condition tied to a device, surfaced on the dashboard
type Alert struct {
	ID        string        `json:"id"`
	DeviceID  string        `json:"device_id"`
	Severity  AlertSeverity `json:"severity"`
	Message   string        `json:"message"`
	Details   string        `json:"details,omitempty"`
	Status    string        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
}
