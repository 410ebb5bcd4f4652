package scenarios

import (
	"fmt"
	"math"
	"time"

	"github.com/gmahli/fsaas/core/fleet"
	"github.com/gmahli/fsaas/core/model"
	"github.com/gmahli/fsaas/core/sim"
)

// Result is the fleet state observed after a script completes.
type Result struct {
	Vehicle model.Vehicle
	Alerts  []model.Alert
}

// Run executes a script against a fresh demo fleet with shortened scenario
// pacing, waiting for each step's continuations to fire before the next.
func Run(sc *Script) (*Result, error) {
	store := fleet.NewStore()
	store.SetVehicles(fleet.DemoFleet(time.Now()))

	cfg := sim.RunnerConfig{TheftDelayMS: 5, RouteDelayMS: 5, SensorDelayMS: 5, HoldMS: 25}
	runner := sim.NewRunner(store, cfg, nil, nil, nil, nil)
	defer runner.Close()

	for _, step := range sc.Steps {
		parsed, err := sim.ParseScenario(step.Scenario)
		if err != nil {
			return nil, fmt.Errorf("script %s: %w", sc.Name, err)
		}
		if err := runner.Trigger(sc.Vehicle, parsed); err != nil {
			return nil, fmt.Errorf("script %s: %w", sc.Name, err)
		}
		if err := waitIdle(runner, sc.Vehicle, 2*time.Second); err != nil {
			return nil, fmt.Errorf("script %s: %w", sc.Name, err)
		}
	}

	v, ok := store.VehicleByID(sc.Vehicle)
	if !ok {
		return nil, fmt.Errorf("script %s: vehicle %s vanished", sc.Name, sc.Vehicle)
	}
	return &Result{Vehicle: v, Alerts: store.VehicleAlerts(sc.Vehicle)}, nil
}

// Check compares the result against the script's expectations.
func (r *Result) Check(exp Expected) error {
	if got := len(r.Alerts); got != exp.Alerts {
		return fmt.Errorf("alerts: got %d, want %d", got, exp.Alerts)
	}
	if exp.CriticalCount > 0 {
		crit := 0
		for _, a := range r.Alerts {
			if a.Severity == model.SeverityCritical {
				crit++
			}
		}
		if crit != exp.CriticalCount {
			return fmt.Errorf("critical alerts: got %d, want %d", crit, exp.CriticalCount)
		}
	}
	if exp.Pitch != nil {
		if got := r.Vehicle.SensorData.Tilt.Pitch; math.Abs(got-*exp.Pitch) > 0.01 {
			return fmt.Errorf("pitch: got %.2f, want %.2f", got, *exp.Pitch)
		}
	}
	if exp.DrainOpen != nil {
		if got := r.Vehicle.SensorData.Valve.DrainOpen; got != *exp.DrainOpen {
			return fmt.Errorf("drain_open: got %v, want %v", got, *exp.DrainOpen)
		}
	}
	if exp.FlowRate != nil {
		if got := r.Vehicle.SensorData.Fuel.FlowRate; math.Abs(got-*exp.FlowRate) > 0.01 {
			return fmt.Errorf("flow_rate: got %.2f, want %.2f", got, *exp.FlowRate)
		}
	}
	return nil
}

func waitIdle(r *sim.Runner, vehicleID string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !r.Running(vehicleID) {
			return nil
		}
		time.Sleep(2 * time.Millisecond)
	}
	return fmt.Errorf("scenario on %s still running after %s", vehicleID, timeout)
}
