package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gmahli/fsaas/config"
	"github.com/gmahli/fsaas/core/fleet"
)

func TestSettingsFilename(t *testing.T) {
	ts := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)
	if got := SettingsFilename(ts); got != "fsaas-config-2026-08-30.json" {
		t.Fatalf("filename: %s", got)
	}
}

func TestWriteSettingsJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	if err := WriteSettingsJSON(&buf, cfg.Settings); err != nil {
		t.Fatal(err)
	}
	var out config.SystemSettings
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output not valid JSON: %v", err)
	}
	if out.Thresholds.FuelTheftLimitL != cfg.Settings.Thresholds.FuelTheftLimitL {
		t.Fatalf("thresholds lost: %+v", out.Thresholds)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Fatal("output not indented")
	}
}

func TestImportSettingsUnsupported(t *testing.T) {
	if _, err := ImportSettings(strings.NewReader("{}")); err == nil {
		t.Fatal("import should be unsupported")
	}
}

func TestWriteFleetCSV(t *testing.T) {
	var buf bytes.Buffer
	vehicles := fleet.DemoFleet(time.Now())
	if err := WriteFleetCSV(&buf, vehicles); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != len(vehicles)+1 {
		t.Fatalf("got %d rows, want %d", len(records), len(vehicles)+1)
	}
	if records[0][0] != "vehicle_id" {
		t.Fatalf("header: %v", records[0])
	}
	if records[1][0] != "VHC-001" || records[1][3] != "active" {
		t.Fatalf("first row: %v", records[1])
	}
}
