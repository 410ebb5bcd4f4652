package sim

import (
	"math/rand"
	"testing"
	"time"

	"github.com/gmahli/fsaas/core/fleet"
	"github.com/gmahli/fsaas/core/model"
)

func testEngine(t *testing.T, cfg EngineConfig, seed int64) (*Engine, *fleet.Store, time.Time) {
	t.Helper()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	store := fleet.NewStore()
	store.SetVehicles(fleet.DemoFleet(now))
	eng := NewEngine(store, cfg, rand.New(rand.NewSource(seed)), func() time.Time { return now }, nil, nil, nil)
	return eng, store, now
}

func TestTickKeepsTelemetryInBounds(t *testing.T) {
	eng, store, now := testEngine(t, EngineConfig{AlertProbability: -1}, 42)

	for i := 0; i < 200; i++ {
		eng.Tick()
	}
	for _, v := range store.Vehicles() {
		gps := v.SensorData.GPS
		if gps.Speed < 0 || gps.Speed > 80 {
			t.Errorf("%s: speed %v out of [0,80]", v.ID, gps.Speed)
		}
		if gps.Heading < 0 || gps.Heading >= 360 {
			t.Errorf("%s: heading %v out of [0,360)", v.ID, gps.Heading)
		}
		if v.SensorData.Fuel.TotalFuel < 0 {
			t.Errorf("%s: negative fuel %v", v.ID, v.SensorData.Fuel.TotalFuel)
		}
		for _, c := range v.Compartments {
			if c.CurrentLevel < 0 || c.CurrentLevel > c.Capacity {
				t.Errorf("%s %s: level %v out of [0,%v]", v.ID, c.ID, c.CurrentLevel, c.Capacity)
			}
		}
		if v.Route != nil && (v.Route.Progress < 0 || v.Route.Progress > 100) {
			t.Errorf("%s: progress %v out of [0,100]", v.ID, v.Route.Progress)
		}
		if !v.LastSync.Equal(now) {
			t.Errorf("%s: last sync not stamped", v.ID)
		}
		if !gps.Timestamp.Equal(now) || !v.SensorData.Fuel.Timestamp.Equal(now) {
			t.Errorf("%s: reading timestamps not stamped", v.ID)
		}
	}
}

func TestTickIdleVehicleStaysSlow(t *testing.T) {
	eng, store, _ := testEngine(t, EngineConfig{AlertProbability: -1}, 7)

	for i := 0; i < 50; i++ {
		eng.Tick()
	}
	v, _ := store.VehicleByID("VHC-004")
	if v.Status != model.StatusIdle {
		t.Fatalf("VHC-004 expected idle, got %s", v.Status)
	}
	// Idle base speed is zero, so only oscillation and noise remain.
	if v.SensorData.GPS.Speed > 25 {
		t.Fatalf("idle speed too high: %v", v.SensorData.GPS.Speed)
	}
	if v.Route != nil && v.Route.Progress != 0 {
		t.Fatalf("idle progress advanced: %v", v.Route.Progress)
	}
}

func TestTickFuelNeverIncreases(t *testing.T) {
	eng, store, _ := testEngine(t, EngineConfig{AlertProbability: -1}, 11)

	before := map[string]float64{}
	for _, v := range store.Vehicles() {
		before[v.ID] = v.SensorData.Fuel.TotalFuel
	}
	for i := 0; i < 20; i++ {
		eng.Tick()
	}
	for _, v := range store.Vehicles() {
		if v.SensorData.Fuel.TotalFuel > before[v.ID] {
			t.Errorf("%s: fuel rose from %v to %v", v.ID, before[v.ID], v.SensorData.Fuel.TotalFuel)
		}
	}
}

func TestTickAlertEmission(t *testing.T) {
	eng, store, _ := testEngine(t, EngineConfig{AlertProbability: 1}, 3)

	eng.Tick()
	alerts := store.Alerts()
	if len(alerts) != 5 {
		t.Fatalf("probability 1: got %d alerts, want one per vehicle", len(alerts))
	}
	for _, a := range alerts {
		if a.ID == "" || a.VehicleID == "" || a.RuleID == "" {
			t.Errorf("alert missing identity fields: %+v", a)
		}
		if a.Snapshot == nil {
			t.Errorf("alert %s missing snapshot", a.ID)
		}
	}

	quiet, quietStore, _ := testEngine(t, EngineConfig{AlertProbability: -1}, 3)
	for i := 0; i < 50; i++ {
		quiet.Tick()
	}
	if got := len(quietStore.Alerts()); got != 0 {
		t.Fatalf("suppressed emission still produced %d alerts", got)
	}
}

func TestTickDeterministicWithSeed(t *testing.T) {
	a, storeA, _ := testEngine(t, EngineConfig{AlertProbability: -1}, 99)
	b, storeB, _ := testEngine(t, EngineConfig{AlertProbability: -1}, 99)

	for i := 0; i < 10; i++ {
		a.Tick()
		b.Tick()
	}
	va, _ := storeA.VehicleByID("VHC-001")
	vb, _ := storeB.VehicleByID("VHC-001")
	if va.SensorData.GPS != vb.SensorData.GPS {
		t.Fatalf("same seed diverged: %+v vs %+v", va.SensorData.GPS, vb.SensorData.GPS)
	}
	if va.SensorData.Fuel.TotalFuel != vb.SensorData.Fuel.TotalFuel {
		t.Fatalf("fuel diverged: %v vs %v", va.SensorData.Fuel.TotalFuel, vb.SensorData.Fuel.TotalFuel)
	}
}

func TestEngineConfigDefaults(t *testing.T) {
	var cfg EngineConfig
	cfg.SetDefaults()
	if cfg.IntervalMS != 1000 {
		t.Fatalf("interval default: %d", cfg.IntervalMS)
	}
	if cfg.AlertProbability != 0.015 {
		t.Fatalf("alert probability default: %v", cfg.AlertProbability)
	}
}
