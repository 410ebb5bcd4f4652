package model

import (
	"fmt"
	"math"
	"time"
)

// VehicleStatus describes the operational state of a tanker.
type VehicleStatus string

const (
	StatusActive      VehicleStatus = "active"
	StatusIdle        VehicleStatus = "idle"
	StatusMaintenance VehicleStatus = "maintenance"
	StatusOffline     VehicleStatus = "offline"
)

// ValveState is the position of the main outlet valve.
type ValveState string

const (
	ValveOpen    ValveState = "open"
	ValveClosed  ValveState = "closed"
	ValvePartial ValveState = "partial"
)

// Compartment is one independent fuel-holding section of a tanker.
// Capacity is fixed for the vehicle's lifetime; Percentage is always
// derived from CurrentLevel, never set directly.
type Compartment struct {
	ID           string  `json:"id"`
	Capacity     float64 `json:"capacity"`
	CurrentLevel float64 `json:"currentLevel"`
	Percentage   float64 `json:"percentage"`
}

// SetLevel clamps level into [0, Capacity] and recomputes Percentage.
func (c *Compartment) SetLevel(level float64) {
	if level < 0 {
		level = 0
	}
	if level > c.Capacity {
		level = c.Capacity
	}
	c.CurrentLevel = math.Round(level)
	if c.Capacity > 0 {
		c.Percentage = math.Round(c.CurrentLevel/c.Capacity*100*100) / 100
	} else {
		c.Percentage = 0
	}
}

// GPSReading is a positioning snapshot.
type GPSReading struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Speed     float64   `json:"speed"`   // km/h
	Heading   float64   `json:"heading"` // degrees, [0,360)
	Timestamp time.Time `json:"timestamp"`
}

// FuelReading aggregates the fuel probe outputs.
type FuelReading struct {
	TotalFuel    float64       `json:"totalFuel"` // litres
	Compartments []Compartment `json:"compartments"`
	FlowRate     float64       `json:"flowRate"` // L/min, negative while draining
	Timestamp    time.Time     `json:"timestamp"`
}

// TiltReading is the inclinometer snapshot.
type TiltReading struct {
	Pitch     float64   `json:"pitch"`
	Roll      float64   `json:"roll"`
	Yaw       float64   `json:"yaw"`
	Timestamp time.Time `json:"timestamp"`
}

// ValveReading reports the drain and main valve state.
type ValveReading struct {
	DrainOpen     bool       `json:"drainOpen"`
	DrainComplete bool       `json:"drainComplete"`
	MainValve     ValveState `json:"mainValveStatus"`
	Timestamp     time.Time  `json:"timestamp"`
}

// SensorData is the full sensor snapshot of one vehicle. Each reading
// carries its own timestamp and is stamped independently per tick.
type SensorData struct {
	GPS   GPSReading   `json:"gps"`
	Fuel  FuelReading  `json:"fuel"`
	Tilt  TiltReading  `json:"tilt"`
	Valve ValveReading `json:"valve"`
}

// Geofence is a closed GeoJSON-style polygon, vertices as [lng, lat].
// Only the boundary is stored; violation detection is out of scope.
type Geofence struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// Route describes the assigned trip of a vehicle.
type Route struct {
	Origin           string    `json:"origin"`
	Destination      string    `json:"destination"`
	EstimatedArrival time.Time `json:"estimatedArrival"`
	Progress         float64   `json:"progress"` // percent, [0,100]
}

// Vehicle is one monitored tanker.
type Vehicle struct {
	ID           string        `json:"id"`
	VehicleID    string        `json:"vehicleId"`
	Company      string        `json:"company"`
	DriverName   string        `json:"driverName"`
	Status       VehicleStatus `json:"status"`
	LastSync     time.Time     `json:"lastSync"`
	Geofence     Geofence      `json:"geofence"`
	Compartments []Compartment `json:"compartments"`
	SensorData   SensorData    `json:"sensorData"`
	Alerts       []Alert       `json:"alerts"`
	Route        *Route        `json:"route,omitempty"`
}

// Validate checks structural soundness of a seeded vehicle.
func (v Vehicle) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("vehicle id is required")
	}
	for _, c := range v.Compartments {
		if c.Capacity <= 0 {
			return fmt.Errorf("vehicle %s: compartment %s capacity must be positive", v.ID, c.ID)
		}
		if c.CurrentLevel < 0 || c.CurrentLevel > c.Capacity {
			return fmt.Errorf("vehicle %s: compartment %s level out of range", v.ID, c.ID)
		}
	}
	return nil
}

// CompartmentTotal sums the current levels across compartments. The sum
// only approximates SensorData.Fuel.TotalFuel; per-compartment jitter is
// part of the simulated behaviour.
func (v Vehicle) CompartmentTotal() float64 {
	var sum float64
	for _, c := range v.Compartments {
		sum += c.CurrentLevel
	}
	return sum
}

// Clone returns a deep copy safe to hand to readers.
func (v Vehicle) Clone() Vehicle {
	out := v
	out.Compartments = append([]Compartment(nil), v.Compartments...)
	out.SensorData.Fuel.Compartments = append([]Compartment(nil), v.SensorData.Fuel.Compartments...)
	out.Alerts = append([]Alert(nil), v.Alerts...)
	if v.Route != nil {
		r := *v.Route
		out.Route = &r
	}
	if v.Geofence.Coordinates != nil {
		rings := make([][][2]float64, len(v.Geofence.Coordinates))
		for i, ring := range v.Geofence.Coordinates {
			rings[i] = append([][2]float64(nil), ring...)
		}
		out.Geofence.Coordinates = rings
	}
	return out
}
