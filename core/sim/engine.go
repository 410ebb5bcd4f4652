// Package sim implements the telemetry simulation: the periodic engine that
// advances every vehicle's kinematic and fuel state, and the on-demand
// scenario runner. All motion is formula-driven cosmetic wandering, not a
// physical model.
package sim

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/gmahli/fsaas/core/fleet"
	"github.com/gmahli/fsaas/core/geo"
	"github.com/gmahli/fsaas/core/metrics"
	"github.com/gmahli/fsaas/core/model"
	"github.com/gmahli/fsaas/infra/logger"
	"github.com/gmahli/fsaas/internal/eventbus"
)

// EngineConfig defines tick cadence and alert emission probability.
type EngineConfig struct {
	IntervalMS       int     `json:"interval_ms"`
	AlertProbability float64 `json:"alert_probability"`
}

// SetDefaults applies the demo defaults: 1 s ticks, 1.5% alert chance.
func (c *EngineConfig) SetDefaults() {
	if c.IntervalMS <= 0 {
		c.IntervalMS = 1000
	}
	if c.AlertProbability == 0 {
		c.AlertProbability = 0.015
	}
}

// driftPattern is a per-vehicle fixed direction vector in degrees per tick.
// Assigned by fleet position, wrapping for larger fleets.
type driftPattern struct {
	lat, lng float64
}

var driftPatterns = []driftPattern{
	{0.0008, 0.0012},  // SE
	{-0.0006, 0.0010}, // NE
	{0.0010, -0.0008}, // NW
	{0.0001, 0.0001},  // near-stationary
	{-0.0012, 0.0006}, // wide arc
}

// Engine advances the whole fleet once per tick. The RNG and clock are
// injected so ticks are reproducible under test.
type Engine struct {
	store *fleet.Store
	cfg   EngineConfig
	rng   *rand.Rand
	now   func() time.Time
	sink  metrics.Sink
	bus   eventbus.EventBus
	log   logger.Logger
}

// NewEngine wires an engine. sink, bus and log may be nil.
func NewEngine(store *fleet.Store, cfg EngineConfig, rng *rand.Rand, now func() time.Time, sink metrics.Sink, bus eventbus.EventBus, log logger.Logger) *Engine {
	cfg.SetDefaults()
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Engine{store: store, cfg: cfg, rng: rng, now: now, sink: sink, bus: bus, log: log}
}

// Run ticks until the context is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(e.cfg.IntervalMS) * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			e.Tick()
		case <-ctx.Done():
			return
		}
	}
}

// Tick runs one full pass over the fleet. Per-vehicle updates are
// independent; a reader never observes a partially updated vehicle because
// each vehicle is replaced atomically under the store lock.
func (e *Engine) Tick() {
	started := e.now()
	vehicles := e.store.Vehicles()
	for i, v := range vehicles {
		e.advance(i, v)
	}
	if err := e.sink.RecordTick(metrics.TickEvent{
		Vehicles: len(vehicles),
		Duration: e.now().Sub(started),
		Time:     started,
	}); err != nil {
		e.log.Warnf("tick metric: %v", err)
	}
}

func (e *Engine) advance(index int, v model.Vehicle) {
	now := e.now()
	pattern := driftPatterns[index%len(driftPatterns)]

	// Smooth time-based oscillation, phase-shifted per vehicle so the fleet
	// does not move in lockstep.
	t := float64(now.UnixMilli())/10000 + float64(index)*math.Pi/2
	newLat := v.SensorData.GPS.Lat + pattern.lat + math.Sin(t)*0.0003
	newLng := v.SensorData.GPS.Lng + pattern.lng + math.Cos(t)*0.0003

	baseSpeed := 0.0
	if v.Status != model.StatusIdle {
		baseSpeed = 35 + float64(index)*5
	}
	newSpeed := clamp(baseSpeed+math.Sin(t*2)*15+e.rng.Float64()*10, 0, 80)

	// Consumption from distance moved plus speed, equirectangular scaling.
	dist := geo.DriftMeters(pattern.lat, pattern.lng)
	consumption := dist*0.3 + newSpeed*0.02
	currentFuel := v.SensorData.Fuel.TotalFuel
	newTotalFuel := math.Max(0, currentFuel-consumption)

	// Spread the new total across compartments with a ±1% jitter each.
	ratio := newTotalFuel / math.Max(currentFuel, 1)
	compartments := make([]model.Compartment, len(v.Compartments))
	for ci, comp := range v.Compartments {
		jitter := (e.rng.Float64() - 0.5) * 0.02
		comp.SetLevel(comp.CurrentLevel * (ratio + jitter))
		compartments[ci] = comp
	}

	heading := normalizeHeading(math.Atan2(pattern.lng, pattern.lat)*(180/math.Pi) + 90)

	// Tilt scales with speed so a stopped vehicle sits flat.
	speedFactor := newSpeed / 80
	pitch := (math.Sin(t*3)*3 + e.rng.Float64()*2) * speedFactor
	roll := (math.Cos(t*2.5)*2 + e.rng.Float64()*1.5) * speedFactor

	progressIncrement := 0.0
	if v.Status == model.StatusActive {
		progressIncrement = e.rng.Float64() * 0.5
	}

	alertRoll := e.rng.Float64()
	templateIdx := e.rng.Intn(len(alertCatalog))

	var updated model.Vehicle
	ok := e.store.Apply(v.ID, func(cur *model.Vehicle) {
		cur.Compartments = compartments
		cur.SensorData.GPS = model.GPSReading{
			Lat:       round4(newLat),
			Lng:       round4(newLng),
			Speed:     math.Round(newSpeed),
			Heading:   math.Round(heading),
			Timestamp: now,
		}
		cur.SensorData.Fuel = model.FuelReading{
			TotalFuel:    math.Round(newTotalFuel),
			Compartments: compartments,
			FlowRate:     round2(consumption / 2),
			Timestamp:    now,
		}
		cur.SensorData.Tilt = model.TiltReading{
			Pitch:     round2(pitch),
			Roll:      round2(roll),
			Yaw:       math.Round(heading),
			Timestamp: now,
		}
		cur.SensorData.Valve.Timestamp = now
		if cur.Route != nil {
			cur.Route.Progress = round2(math.Min(100, cur.Route.Progress+progressIncrement))
		}
		cur.LastSync = now
		updated = cur.Clone()
	})
	if !ok {
		return
	}

	if fr, has := e.sink.(metrics.FuelRecorder); has {
		if err := fr.RecordFuel(metrics.FuelEvent{
			VehicleID: v.ID,
			TotalFuel: updated.SensorData.Fuel.TotalFuel,
			FlowRate:  updated.SensorData.Fuel.FlowRate,
			Speed:     updated.SensorData.GPS.Speed,
			Time:      now,
		}); err != nil {
			e.log.Warnf("fuel metric %s: %v", v.ID, err)
		}
	}
	if e.bus != nil {
		e.bus.Publish(eventbus.VehicleUpdated{Vehicle: updated})
	}

	if alertRoll < e.cfg.AlertProbability {
		alert := alertCatalog[templateIdx].build(updated, now)
		e.store.AddAlert(alert)
		if err := e.sink.RecordAlert(metrics.AlertEvent{
			VehicleID: alert.VehicleID,
			Type:      alert.Type,
			Severity:  alert.Severity,
			Source:    "engine",
			Time:      now,
		}); err != nil {
			e.log.Warnf("alert metric %s: %v", v.ID, err)
		}
		if e.bus != nil {
			e.bus.Publish(eventbus.AlertRaised{Alert: alert, Source: "engine"})
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func normalizeHeading(deg float64) float64 {
	deg = math.Mod(deg+360, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
