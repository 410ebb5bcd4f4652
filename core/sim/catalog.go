package sim

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gmahli/fsaas/core/model"
)

// alertTemplate is one entry of the random-emission catalog. The engine
// picks uniformly among these on a successful per-tick roll.
type alertTemplate struct {
	Type     model.AlertType
	Severity model.AlertSeverity
	Title    string
	Message  string
}

var alertCatalog = []alertTemplate{
	{model.AlertTheft, model.SeverityCritical, "Fuel Theft Detected", "Rapid fuel loss detected in compartment C2"},
	{model.AlertRouteViolation, model.SeverityWarning, "Route Deviation", "Vehicle deviated from planned route"},
	{model.AlertSensorHealth, model.SeverityInfo, "Sensor Maintenance", "GPS sensor requires calibration"},
	{model.AlertMaintenance, model.SeverityWarning, "Scheduled Maintenance", "Vehicle due for inspection in 2 days"},
}

func (t alertTemplate) build(v model.Vehicle, now time.Time) model.Alert {
	return model.Alert{
		ID:        "ALT-" + uuid.NewString(),
		VehicleID: v.ID,
		Type:      t.Type,
		Severity:  t.Severity,
		Title:     t.Title,
		Message:   fmt.Sprintf("%s - Vehicle: %s", t.Message, v.VehicleID),
		Timestamp: now,
		RuleID:    "RULE-" + strings.ToUpper(string(t.Type)),
		Snapshot: map[string]any{
			"fuel": v.SensorData.Fuel,
			"gps": map[string]any{
				"lat":   v.SensorData.GPS.Lat,
				"lng":   v.SensorData.GPS.Lng,
				"speed": v.SensorData.GPS.Speed,
			},
			"tilt": map[string]any{
				"pitch": v.SensorData.Tilt.Pitch,
				"roll":  v.SensorData.Tilt.Roll,
				"yaw":   v.SensorData.Tilt.Yaw,
			},
		},
	}
}
