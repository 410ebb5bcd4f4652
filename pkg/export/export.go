// Package export writes user-triggered downloads: the settings snapshot as
// timestamped JSON and the fleet as CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gmahli/fsaas/config"
	"github.com/gmahli/fsaas/core/model"
)

// SettingsFilename returns the canonical download name for a settings
// export, e.g. fsaas-config-2026-08-30.json.
func SettingsFilename(t time.Time) string {
	return fmt.Sprintf("fsaas-config-%s.json", t.Format("2006-01-02"))
}

// WriteSettingsJSON writes the settings snapshot to w, indented the way the
// dashboard download is.
func WriteSettingsJSON(w io.Writer, s config.SystemSettings) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// ImportSettings is intentionally a stub: the dashboard exposes the button
// but config import is not implemented.
func ImportSettings(io.Reader) (config.SystemSettings, error) {
	return config.SystemSettings{}, fmt.Errorf("settings import is not supported")
}

// WriteFleetCSV writes one row per vehicle with its headline telemetry.
func WriteFleetCSV(w io.Writer, vehicles []model.Vehicle) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"vehicle_id", "company", "driver", "status", "lat", "lng", "speed_kmh", "total_fuel_l", "flow_rate_lpm", "open_alerts"}); err != nil {
		return err
	}
	for _, v := range vehicles {
		open := 0
		for _, a := range v.Alerts {
			if !a.Acknowledged {
				open++
			}
		}
		rec := []string{
			v.VehicleID,
			v.Company,
			v.DriverName,
			string(v.Status),
			strconv.FormatFloat(v.SensorData.GPS.Lat, 'f', 4, 64),
			strconv.FormatFloat(v.SensorData.GPS.Lng, 'f', 4, 64),
			strconv.FormatFloat(v.SensorData.GPS.Speed, 'f', -1, 64),
			strconv.FormatFloat(v.SensorData.Fuel.TotalFuel, 'f', -1, 64),
			strconv.FormatFloat(v.SensorData.Fuel.FlowRate, 'f', 2, 64),
			strconv.Itoa(open),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
