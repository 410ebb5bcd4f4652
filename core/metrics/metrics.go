// Package metrics defines the sink interfaces the simulation reports into.
// Implementations live under infra/metrics.
package metrics

import (
	"time"

	"github.com/gmahli/fsaas/core/model"
)

// TickEvent summarizes one full pass of the simulation engine.
type TickEvent struct {
	Vehicles int
	Duration time.Duration
	Time     time.Time
}

// AlertEvent records an alert emission (engine roll or scenario trigger).
type AlertEvent struct {
	VehicleID string
	Type      model.AlertType
	Severity  model.AlertSeverity
	Source    string // "engine" or "scenario"
	Time      time.Time
}

// FuelEvent is a per-vehicle fuel snapshot taken each tick.
type FuelEvent struct {
	VehicleID string
	TotalFuel float64
	FlowRate  float64
	Speed     float64
	Time      time.Time
}

// Sink records simulation events for observability purposes.
type Sink interface {
	RecordTick(ev TickEvent) error
	RecordAlert(ev AlertEvent) error
}

// FuelRecorder is implemented by sinks that keep per-vehicle fuel series.
type FuelRecorder interface {
	RecordFuel(ev FuelEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordTick(TickEvent) error   { return nil }
func (NopSink) RecordAlert(AlertEvent) error { return nil }
func (NopSink) RecordFuel(FuelEvent) error   { return nil }

// Config selects and configures the enabled sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":9090"
	}
}
