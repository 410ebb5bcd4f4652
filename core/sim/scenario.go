package sim

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gmahli/fsaas/core/fleet"
	"github.com/gmahli/fsaas/core/metrics"
	"github.com/gmahli/fsaas/core/model"
	"github.com/gmahli/fsaas/infra/logger"
	"github.com/gmahli/fsaas/internal/eventbus"
)

// Scenario identifies a demo injection.
type Scenario string

const (
	ScenarioTheft             Scenario = "theft"
	ScenarioRouteViolation    Scenario = "route_violation"
	ScenarioSensorDegradation Scenario = "sensor_degradation"
	ScenarioNormalDelivery    Scenario = "normal_delivery"
)

// ParseScenario validates a user-supplied scenario name.
func ParseScenario(s string) (Scenario, error) {
	switch Scenario(s) {
	case ScenarioTheft, ScenarioRouteViolation, ScenarioSensorDegradation, ScenarioNormalDelivery:
		return Scenario(s), nil
	}
	return "", fmt.Errorf("unknown scenario %q", s)
}

// RunnerConfig controls scenario delays. Tests shrink these to keep runs
// fast; the defaults reproduce the demo pacing.
type RunnerConfig struct {
	TheftDelayMS  int `json:"theft_delay_ms"`
	RouteDelayMS  int `json:"route_delay_ms"`
	SensorDelayMS int `json:"sensor_delay_ms"`
	HoldMS        int `json:"hold_ms"`
}

// SetDefaults applies the demo pacing.
func (c *RunnerConfig) SetDefaults() {
	if c.TheftDelayMS <= 0 {
		c.TheftDelayMS = 2000
	}
	if c.RouteDelayMS <= 0 {
		c.RouteDelayMS = 1500
	}
	if c.SensorDelayMS <= 0 {
		c.SensorDelayMS = 1000
	}
	if c.HoldMS <= 0 {
		c.HoldMS = 5000
	}
}

// Runner injects deterministic scenarios into single vehicles. Scheduled
// continuations are tracked timers: a scenario can be cancelled per vehicle
// and everything pending is stopped on Close, so a torn-down session never
// leaves a dangling mutation.
type Runner struct {
	store *fleet.Store
	cfg   RunnerConfig
	now   func() time.Time
	sink  metrics.Sink
	bus   eventbus.EventBus
	log   logger.Logger

	mu      sync.Mutex
	running map[string]bool
	timers  map[string][]*time.Timer
	closed  bool
}

// NewRunner wires a scenario runner. sink, bus and log may be nil.
func NewRunner(store *fleet.Store, cfg RunnerConfig, now func() time.Time, sink metrics.Sink, bus eventbus.EventBus, log logger.Logger) *Runner {
	cfg.SetDefaults()
	if now == nil {
		now = time.Now
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Runner{
		store:   store,
		cfg:     cfg,
		now:     now,
		sink:    sink,
		bus:     bus,
		log:     log,
		running: map[string]bool{},
		timers:  map[string][]*time.Timer{},
	}
}

// Running reports whether a scenario is active on the vehicle. The flag
// self-clears after the hold delay.
func (r *Runner) Running(vehicleID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running[vehicleID]
}

// Trigger starts the scenario for the vehicle. A vehicle runs at most one
// scenario at a time; other vehicles are unaffected.
func (r *Runner) Trigger(vehicleID string, sc Scenario) error {
	v, ok := r.store.VehicleByID(vehicleID)
	if !ok {
		return fmt.Errorf("unknown vehicle %q", vehicleID)
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return fmt.Errorf("runner closed")
	}
	if r.running[vehicleID] {
		r.mu.Unlock()
		return fmt.Errorf("scenario already running on %s", vehicleID)
	}
	r.running[vehicleID] = true
	r.mu.Unlock()

	r.log.Infof("scenario %s triggered for %s", sc, v.VehicleID)

	switch sc {
	case ScenarioTheft:
		r.schedule(vehicleID, r.delay(r.cfg.TheftDelayMS), func() { r.fireTheft(vehicleID) })
	case ScenarioRouteViolation:
		r.schedule(vehicleID, r.delay(r.cfg.RouteDelayMS), func() { r.fireRouteViolation(vehicleID) })
	case ScenarioSensorDegradation:
		r.schedule(vehicleID, r.delay(r.cfg.SensorDelayMS), func() { r.fireSensorDegradation(vehicleID) })
	case ScenarioNormalDelivery:
		r.fireNormalDelivery(vehicleID)
	default:
		r.clearRunning(vehicleID)
		return fmt.Errorf("unknown scenario %q", sc)
	}

	r.schedule(vehicleID, r.delay(r.cfg.HoldMS), func() { r.clearRunning(vehicleID) })
	return nil
}

// Cancel stops all pending continuations for the vehicle and clears its
// running flag. Already-applied mutations are not rolled back.
func (r *Runner) Cancel(vehicleID string) {
	r.mu.Lock()
	for _, tm := range r.timers[vehicleID] {
		tm.Stop()
	}
	delete(r.timers, vehicleID)
	delete(r.running, vehicleID)
	r.mu.Unlock()
}

// Close cancels everything pending. The runner cannot be reused.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for _, tms := range r.timers {
		for _, tm := range tms {
			tm.Stop()
		}
	}
	r.timers = map[string][]*time.Timer{}
	r.running = map[string]bool{}
}

func (r *Runner) fireTheft(vehicleID string) {
	now := r.now()
	var updated model.Vehicle
	ok := r.store.Apply(vehicleID, func(v *model.Vehicle) {
		current := v.SensorData.Fuel.TotalFuel
		newTotal := math.Max(0, current-1500)
		// Keep compartment sums tracking the drained total.
		ratio := newTotal / math.Max(current, 1)
		for i := range v.Compartments {
			v.Compartments[i].SetLevel(v.Compartments[i].CurrentLevel * ratio)
		}
		v.SensorData.Tilt.Pitch = 35
		v.SensorData.Tilt.Timestamp = now
		v.SensorData.Valve.DrainOpen = true
		v.SensorData.Valve.DrainComplete = true
		v.SensorData.Valve.Timestamp = now
		v.SensorData.Fuel.TotalFuel = newTotal
		v.SensorData.Fuel.Compartments = append([]model.Compartment(nil), v.Compartments...)
		v.SensorData.Fuel.FlowRate = -12.5
		v.SensorData.Fuel.Timestamp = now
		updated = v.Clone()
	})
	if !ok {
		return
	}
	alert := model.Alert{
		ID:        "alert-" + uuid.NewString(),
		VehicleID: vehicleID,
		Type:      model.AlertTheft,
		Severity:  model.SeverityCritical,
		Title:     "CRITICAL: Fuel Theft Detected",
		Message:   fmt.Sprintf("Unusual tilt (35°) and rapid fuel loss (-15L) detected on %s. Drain valve appears compromised.", updated.VehicleID),
		Timestamp: now,
		RuleID:    "theft-rule-001",
		Snapshot: map[string]any{
			"tiltAngle":   35,
			"fuelLoss":    15,
			"drainStatus": true,
			"location":    updated.SensorData.GPS,
		},
	}
	r.emit(alert, updated)
}

func (r *Runner) fireRouteViolation(vehicleID string) {
	v, ok := r.store.VehicleByID(vehicleID)
	if !ok {
		return
	}
	alert := model.Alert{
		ID:        "alert-" + uuid.NewString(),
		VehicleID: vehicleID,
		Type:      model.AlertRouteViolation,
		Severity:  model.SeverityWarning,
		Title:     "Route Violation Detected",
		Message:   fmt.Sprintf("%s has deviated from authorized route by 800m for >90 seconds.", v.VehicleID),
		Timestamp: r.now(),
		RuleID:    "route-rule-001",
		Snapshot: map[string]any{
			"deviation": 800,
			"duration":  95,
			"location":  v.SensorData.GPS,
		},
	}
	r.emit(alert, model.Vehicle{})
}

func (r *Runner) fireSensorDegradation(vehicleID string) {
	v, ok := r.store.VehicleByID(vehicleID)
	if !ok {
		return
	}
	alert := model.Alert{
		ID:        "alert-" + uuid.NewString(),
		VehicleID: vehicleID,
		Type:      model.AlertSensorHealth,
		Severity:  model.SeverityInfo,
		Title:     "Sensor Health Warning",
		Message:   fmt.Sprintf("Fuel probe on %s has stopped responding. Last reading: 65 seconds ago.", v.VehicleID),
		Timestamp: r.now(),
		RuleID:    "sensor-rule-001",
	}
	r.emit(alert, model.Vehicle{})
}

// fireNormalDelivery resets the sensors a theft scenario disturbed. It is
// immediate and emits no alert.
func (r *Runner) fireNormalDelivery(vehicleID string) {
	now := r.now()
	var updated model.Vehicle
	ok := r.store.Apply(vehicleID, func(v *model.Vehicle) {
		v.SensorData.Tilt.Pitch = 2
		v.SensorData.Tilt.Timestamp = now
		v.SensorData.Valve.DrainOpen = false
		v.SensorData.Valve.DrainComplete = false
		v.SensorData.Valve.Timestamp = now
		v.SensorData.Fuel.FlowRate = -0.2
		v.SensorData.Fuel.Timestamp = now
		updated = v.Clone()
	})
	if ok && r.bus != nil {
		r.bus.Publish(eventbus.VehicleUpdated{Vehicle: updated})
	}
}

func (r *Runner) emit(alert model.Alert, updated model.Vehicle) {
	r.store.AddAlert(alert)
	if err := r.sink.RecordAlert(metrics.AlertEvent{
		VehicleID: alert.VehicleID,
		Type:      alert.Type,
		Severity:  alert.Severity,
		Source:    "scenario",
		Time:      alert.Timestamp,
	}); err != nil {
		r.log.Warnf("alert metric %s: %v", alert.VehicleID, err)
	}
	if r.bus != nil {
		r.bus.Publish(eventbus.AlertRaised{Alert: alert, Source: "scenario"})
		if updated.ID != "" {
			r.bus.Publish(eventbus.VehicleUpdated{Vehicle: updated})
		}
	}
}

func (r *Runner) clearRunning(vehicleID string) {
	r.mu.Lock()
	delete(r.running, vehicleID)
	r.mu.Unlock()
}

func (r *Runner) schedule(vehicleID string, d time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	var tm *time.Timer
	tm = time.AfterFunc(d, func() {
		fn()
		r.mu.Lock()
		tms := r.timers[vehicleID]
		for i, x := range tms {
			if x == tm {
				r.timers[vehicleID] = append(tms[:i], tms[i+1:]...)
				break
			}
		}
		r.mu.Unlock()
	})
	r.timers[vehicleID] = append(r.timers[vehicleID], tm)
}

func (r *Runner) delay(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
