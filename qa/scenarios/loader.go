// Package scenarios runs YAML-scripted demo scenario sequences against a
// seeded fleet, used to pin end-to-end scenario behaviour in tests.
package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Step triggers one scenario on the script's vehicle.
type Step struct {
	Scenario string `yaml:"scenario"`
}

// Expected captures the post-run assertions.
type Expected struct {
	Alerts        int      `yaml:"alerts"`
	CriticalCount int      `yaml:"critical,omitempty"`
	Pitch         *float64 `yaml:"pitch,omitempty"`
	DrainOpen     *bool    `yaml:"drain_open,omitempty"`
	FlowRate      *float64 `yaml:"flow_rate,omitempty"`
}

// Script is a named sequence of scenario triggers for one vehicle.
type Script struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Vehicle     string   `yaml:"vehicle"`
	Steps       []Step   `yaml:"steps"`
	Expected    Expected `yaml:"expected"`
}

// Load reads a script from a YAML file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Vehicle == "" {
		return nil, fmt.Errorf("script %s: vehicle is required", sc.Name)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("script %s: at least one step is required", sc.Name)
	}
	return &sc, nil
}
