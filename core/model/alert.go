package model

import "time"

// AlertType classifies the detected condition.
type AlertType string

const (
	AlertTheft          AlertType = "theft"
	AlertRouteViolation AlertType = "route_violation"
	AlertSensorHealth   AlertType = "sensor_health"
	AlertMaintenance    AlertType = "maintenance"
)

// AlertSeverity orders alerts for the dashboard feed.
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityWarning  AlertSeverity = "warning"
	SeverityInfo     AlertSeverity = "info"
)

// Alert is an emitted detection event. VehicleID is a weak reference used
// for lookup only. Acknowledged transitions false->true exactly once and is
// never reversed; alerts are otherwise immutable after emission.
type Alert struct {
	ID           string         `json:"id"`
	VehicleID    string         `json:"vehicleId"`
	Type         AlertType      `json:"type"`
	Severity     AlertSeverity  `json:"severity"`
	Title        string         `json:"title"`
	Message      string         `json:"message"`
	Timestamp    time.Time      `json:"timestamp"`
	Acknowledged bool           `json:"acknowledged"`
	RuleID       string         `json:"ruleId"`
	Snapshot     map[string]any `json:"snapshot,omitempty"`
}
