package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.API.Addr != ":8080" {
		t.Fatalf("api addr: %s", cfg.API.Addr)
	}
	if cfg.Auth.SessionPath != "fsaas-session.json" {
		t.Fatalf("session path: %s", cfg.Auth.SessionPath)
	}
	if cfg.Engine.IntervalMS != 1000 || cfg.Engine.AlertProbability != 0.015 {
		t.Fatalf("engine defaults: %+v", cfg.Engine)
	}
	if cfg.Scenario.TheftDelayMS != 2000 || cfg.Scenario.HoldMS != 5000 {
		t.Fatalf("scenario defaults: %+v", cfg.Scenario)
	}
	if cfg.Metrics.PrometheusPort != ":9090" {
		t.Fatalf("prom port: %s", cfg.Metrics.PrometheusPort)
	}
	if cfg.Settings.Thresholds.FuelTheftLimitL != 10 {
		t.Fatalf("thresholds defaults: %+v", cfg.Settings.Thresholds)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
api:
  addr: ":9999"
engine:
  interval_ms: 250
  alert_probability: 0.5
scenario:
  hold_ms: 100
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.Addr != ":9999" {
		t.Fatalf("api addr: %s", cfg.API.Addr)
	}
	if cfg.Engine.IntervalMS != 250 || cfg.Engine.AlertProbability != 0.5 {
		t.Fatalf("engine: %+v", cfg.Engine)
	}
	if cfg.Scenario.HoldMS != 100 {
		t.Fatalf("hold: %d", cfg.Scenario.HoldMS)
	}
	// Unset sections still get defaults.
	if cfg.Scenario.TheftDelayMS != 2000 {
		t.Fatalf("theft delay default lost: %d", cfg.Scenario.TheftDelayMS)
	}
	if cfg.Auth.SessionPath != "fsaas-session.json" {
		t.Fatalf("session path default lost: %s", cfg.Auth.SessionPath)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"api":{"addr":":7070"}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.Addr != ":7070" {
		t.Fatalf("api addr: %s", cfg.API.Addr)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", `api:
  addr: ":9999"
`)
	t.Setenv("K_API__ADDR", ":6060")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.Addr != ":6060" {
		t.Fatalf("env override lost: %s", cfg.API.Addr)
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := writeConfig(t, "config.toml", "x = 1")
	if _, err := Load(path); err == nil {
		t.Fatal("toml accepted")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Engine.AlertProbability = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("alert probability 1.5 accepted")
	}

	cfg = Default()
	cfg.Metrics.InfluxEnabled = true
	cfg.Metrics.InfluxURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("influx without url accepted")
	}

	cfg = Default()
	cfg.Settings.Thresholds.TiltAngleLimitDeg = 120
	if err := cfg.Validate(); err == nil {
		t.Fatal("tilt limit 120 accepted")
	}
}
