package eventbus

import "github.com/gmahli/fsaas/core/model"

// VehicleUpdated is published after a vehicle's state changed (simulation
// tick or scenario mutation). Carries a snapshot, not a live reference.
type VehicleUpdated struct {
	Vehicle model.Vehicle `json:"vehicle"`
}

// AlertRaised is published when an alert enters the store.
type AlertRaised struct {
	Alert  model.Alert `json:"alert"`
	Source string      `json:"source"` // "engine" or "scenario"
}
