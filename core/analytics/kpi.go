// Package analytics aggregates fleet KPIs for the dashboard's synthetic
// charts. All figures are derived from the current store snapshot; there is
// no historical series.
package analytics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/gmahli/fsaas/core/model"
)

// KPI is one aggregation pass over the fleet.
type KPI struct {
	Vehicles        int     `json:"vehicles"`
	Active          int     `json:"active"`
	Idle            int     `json:"idle"`
	MeanSpeed       float64 `json:"meanSpeed"`
	SpeedStdDev     float64 `json:"speedStdDev"`
	TotalFuel       float64 `json:"totalFuel"`
	MeanFillPct     float64 `json:"meanFillPct"`
	FillPctStdDev   float64 `json:"fillPctStdDev"`
	OpenAlerts      int     `json:"openAlerts"`
	CriticalAlerts  int     `json:"criticalAlerts"`
	DrainValvesOpen int     `json:"drainValvesOpen"`
}

// Compute aggregates the snapshot. Vehicles without compartments contribute
// zero fill percentage.
func Compute(vehicles []model.Vehicle) KPI {
	k := KPI{Vehicles: len(vehicles)}
	speeds := make([]float64, 0, len(vehicles))
	fills := make([]float64, 0, len(vehicles))
	for _, v := range vehicles {
		switch v.Status {
		case model.StatusActive:
			k.Active++
		case model.StatusIdle:
			k.Idle++
		}
		speeds = append(speeds, v.SensorData.GPS.Speed)
		k.TotalFuel += v.SensorData.Fuel.TotalFuel
		var cap, level float64
		for _, c := range v.Compartments {
			cap += c.Capacity
			level += c.CurrentLevel
		}
		if cap > 0 {
			fills = append(fills, level/cap*100)
		} else {
			fills = append(fills, 0)
		}
		if v.SensorData.Valve.DrainOpen {
			k.DrainValvesOpen++
		}
		for _, a := range v.Alerts {
			if !a.Acknowledged {
				k.OpenAlerts++
				if a.Severity == model.SeverityCritical {
					k.CriticalAlerts++
				}
			}
		}
	}
	if len(speeds) > 0 {
		k.MeanSpeed = stat.Mean(speeds, nil)
		k.MeanFillPct = stat.Mean(fills, nil)
	}
	if len(speeds) > 1 {
		k.SpeedStdDev = stat.StdDev(speeds, nil)
		k.FillPctStdDev = stat.StdDev(fills, nil)
	}
	return k
}
