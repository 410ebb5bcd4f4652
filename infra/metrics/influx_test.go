package metrics

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/gmahli/fsaas/core/metrics"
	"github.com/gmahli/fsaas/core/model"
)

func TestInfluxSinkRecordAlert(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()
	now := time.Now()

	if err := sink.RecordAlert(coremetrics.AlertEvent{
		VehicleID: "VHC-001",
		Type:      model.AlertTheft,
		Severity:  model.SeverityCritical,
		Source:    "scenario",
		Time:      now,
	}); err != nil {
		t.Fatalf("record error: %v", err)
	}

	p := write.NewPointWithMeasurement("alert_event").
		AddTag("vehicle_id", "VHC-001").
		AddTag("type", "theft").
		AddTag("severity", "critical").
		AddTag("source", "scenario").
		AddField("count", 1).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if strings.TrimSpace(body) != expected {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestInfluxSinkRecordFuel(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()
	now := time.Now()

	if err := sink.RecordFuel(coremetrics.FuelEvent{
		VehicleID: "VHC-002",
		TotalFuel: 26300,
		FlowRate:  0.1,
		Speed:     52,
		Time:      now,
	}); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if !strings.Contains(body, "vehicle_fuel") || !strings.Contains(body, "vehicle_id=VHC-002") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL, "token", "org", "bucket")
	if !called {
		t.Fatal("health endpoint never called")
	}
	if _, ok := sink.(coremetrics.NopSink); !ok {
		t.Fatalf("expected NopSink fallback, got %T", sink)
	}
}

func TestNewInfluxSinkWithFallbackHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "pass"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL, "token", "org", "bucket")
	is, ok := sink.(*InfluxSink)
	if !ok {
		t.Fatalf("expected InfluxSink, got %T", sink)
	}
	defer is.Close()
	if err := is.RecordTick(coremetrics.TickEvent{Vehicles: 5, Duration: time.Millisecond, Time: time.Now()}); err != nil {
		t.Fatalf("record tick: %v", err)
	}
}
