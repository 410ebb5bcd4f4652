package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/gmahli/fsaas/core/metrics"
	"github.com/gmahli/fsaas/core/model"
)

func newTestSink(t *testing.T) (coremetrics.Sink, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatal(err)
	}
	return sink, reg
}

func TestPromSinkRecordTick(t *testing.T) {
	sink, reg := newTestSink(t)
	for i := 0; i < 3; i++ {
		if err := sink.RecordTick(coremetrics.TickEvent{Vehicles: 5, Duration: time.Millisecond, Time: time.Now()}); err != nil {
			t.Fatal(err)
		}
	}
	if got := testutil.ToFloat64(sink.(*PromSink).ticks); got != 3 {
		t.Fatalf("tick counter: got %v, want 3", got)
	}
	names, err := testutil.GatherAndCount(reg, "sim_tick_duration_seconds")
	if err != nil {
		t.Fatal(err)
	}
	if names == 0 {
		t.Fatal("tick duration histogram not registered")
	}
}

func TestPromSinkRecordAlert(t *testing.T) {
	sink, _ := newTestSink(t)
	ev := coremetrics.AlertEvent{
		VehicleID: "VHC-001",
		Type:      model.AlertTheft,
		Severity:  model.SeverityCritical,
		Source:    "scenario",
		Time:      time.Now(),
	}
	if err := sink.RecordAlert(ev); err != nil {
		t.Fatal(err)
	}
	if err := sink.RecordAlert(ev); err != nil {
		t.Fatal(err)
	}
	counter := sink.(*PromSink).alerts.WithLabelValues("VHC-001", "theft", "critical", "scenario")
	if got := testutil.ToFloat64(counter); got != 2 {
		t.Fatalf("alert counter: got %v, want 2", got)
	}
}

func TestPromSinkRecordFuel(t *testing.T) {
	sink, _ := newTestSink(t)
	fr, ok := sink.(coremetrics.FuelRecorder)
	if !ok {
		t.Fatal("prom sink should record fuel")
	}
	if err := fr.RecordFuel(coremetrics.FuelEvent{VehicleID: "VHC-002", TotalFuel: 26300, Speed: 52}); err != nil {
		t.Fatal(err)
	}
	ps := sink.(*PromSink)
	if got := testutil.ToFloat64(ps.fuel.WithLabelValues("VHC-002")); got != 26300 {
		t.Fatalf("fuel gauge: got %v", got)
	}
	if got := testutil.ToFloat64(ps.speed.WithLabelValues("VHC-002")); got != 52 {
		t.Fatalf("speed gauge: got %v", got)
	}
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatal(err)
	}
	// Re-registering on the same registry reuses the existing collectors.
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("second registration failed: %v", err)
	}
	if err := sink.RecordTick(coremetrics.TickEvent{}); err != nil {
		t.Fatal(err)
	}
}

func TestMultiSinkFanOut(t *testing.T) {
	a, _ := newTestSink(t)
	b, _ := newTestSink(t)
	multi := NewMultiSink(a, b)

	if err := multi.RecordTick(coremetrics.TickEvent{}); err != nil {
		t.Fatal(err)
	}
	if err := multi.RecordFuel(coremetrics.FuelEvent{VehicleID: "VHC-001", TotalFuel: 100}); err != nil {
		t.Fatal(err)
	}
	for _, s := range []coremetrics.Sink{a, b} {
		if got := testutil.ToFloat64(s.(*PromSink).ticks); got != 1 {
			t.Fatalf("fan-out tick count: got %v", got)
		}
		if got := testutil.ToFloat64(s.(*PromSink).fuel.WithLabelValues("VHC-001")); got != 100 {
			t.Fatalf("fan-out fuel: got %v", got)
		}
	}
}
