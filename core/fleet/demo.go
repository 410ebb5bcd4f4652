package fleet

import (
	"time"

	"github.com/gmahli/fsaas/core/model"
)

// DemoFleet builds the five demo tankers operating around Muscat. Timestamps
// are anchored to now so the dashboard shows fresh data on first load.
func DemoFleet(now time.Time) []model.Vehicle {
	return []model.Vehicle{
		{
			ID: "VHC-001", VehicleID: "VHC-001",
			Company: "Gujarat Petro Ltd", DriverName: "Rajesh Patel",
			Status: model.StatusActive, LastSync: now,
			Geofence: rectFence(58.3629, 23.5730, 58.4029, 23.6030), // Al Khuwair / Qurum
			Compartments: []model.Compartment{
				{ID: "C1", Capacity: 8000, CurrentLevel: 7200, Percentage: 90},
				{ID: "C2", Capacity: 8000, CurrentLevel: 6800, Percentage: 85},
				{ID: "C3", Capacity: 6000, CurrentLevel: 5400, Percentage: 90},
				{ID: "C4", Capacity: 6000, CurrentLevel: 4800, Percentage: 80},
			},
			SensorData: sensors(23.5880, 58.3829, 45, 135, 24200, 0.2, 2, 1, now),
			Route: &model.Route{
				Origin: "Seeb Industrial Area", Destination: "Muttrah Port",
				EstimatedArrival: now.Add(2 * time.Hour), Progress: 65,
			},
		},
		{
			ID: "VHC-002", VehicleID: "VHC-002",
			Company: "Bharat Fuel Services", DriverName: "Vikram Singh",
			Status: model.StatusActive, LastSync: now,
			Geofence: rectFence(58.5730, 23.5970, 58.6130, 23.6270), // Muttrah / Ruwi
			Compartments: []model.Compartment{
				{ID: "C1", Capacity: 10000, CurrentLevel: 9500, Percentage: 95},
				{ID: "C2", Capacity: 10000, CurrentLevel: 9200, Percentage: 92},
				{ID: "C3", Capacity: 8000, CurrentLevel: 7600, Percentage: 95},
				{ID: "C4", Capacity: 7000, CurrentLevel: 6300, Percentage: 90},
			},
			SensorData: sensors(23.6120, 58.5930, 52, 90, 26300, 0.1, 1, 0, now),
			Route: &model.Route{
				Origin: "Ruwi Depot", Destination: "Qurum Fuel Station",
				EstimatedArrival: now.Add(4 * time.Hour), Progress: 45,
			},
		},
		{
			ID: "VHC-003", VehicleID: "VHC-003",
			Company: "Reliance Transport", DriverName: "Amit Kumar",
			Status: model.StatusActive, LastSync: now,
			Geofence: rectFence(58.1690, 23.6540, 58.2090, 23.6840), // Seeb
			Compartments: []model.Compartment{
				{ID: "C1", Capacity: 9000, CurrentLevel: 8100, Percentage: 90},
				{ID: "C2", Capacity: 9000, CurrentLevel: 7650, Percentage: 85},
				{ID: "C3", Capacity: 7000, CurrentLevel: 6300, Percentage: 90},
				{ID: "C4", Capacity: 7000, CurrentLevel: 5600, Percentage: 80},
			},
			SensorData: sensors(23.6690, 58.1890, 38, 270, 27650, 0.15, 1.5, 0.5, now),
			Route: &model.Route{
				Origin: "Seeb Logistics Park", Destination: "Muscat Intl Airport Cargo",
				EstimatedArrival: now.Add(3 * time.Hour), Progress: 55,
			},
		},
		{
			ID: "VHC-004", VehicleID: "VHC-004",
			Company: "IOCL Gujarat", DriverName: "Suresh Mehta",
			Status: model.StatusIdle, LastSync: now,
			Geofence: rectFence(57.8690, 23.6930, 57.9090, 23.7230), // Barka
			Compartments: []model.Compartment{
				{ID: "C1", Capacity: 8500, CurrentLevel: 8500, Percentage: 100},
				{ID: "C2", Capacity: 8500, CurrentLevel: 8500, Percentage: 100},
				{ID: "C3", Capacity: 6500, CurrentLevel: 6500, Percentage: 100},
				{ID: "C4", Capacity: 6500, CurrentLevel: 6500, Percentage: 100},
			},
			SensorData: sensors(23.7080, 57.8890, 0, 0, 30000, 0, 0, 0, now),
			Route: &model.Route{
				Origin: "Barka Hub", Destination: "Sohar Refinery",
				EstimatedArrival: now.Add(8 * time.Hour), Progress: 0,
			},
		},
		{
			ID: "VHC-005", VehicleID: "VHC-005",
			Company: "HPCL Distribution", DriverName: "Pradeep Shah",
			Status: model.StatusActive, LastSync: now,
			Geofence: rectFence(58.9240, 23.2470, 58.9640, 23.2770), // Quriyat
			Compartments: []model.Compartment{
				{ID: "C1", Capacity: 12000, CurrentLevel: 10800, Percentage: 90},
				{ID: "C2", Capacity: 12000, CurrentLevel: 9600, Percentage: 80},
				{ID: "C3", Capacity: 10000, CurrentLevel: 8500, Percentage: 85},
				{ID: "C4", Capacity: 8000, CurrentLevel: 6400, Percentage: 80},
			},
			SensorData: sensors(23.2620, 58.9440, 62, 45, 35300, 0.25, 2.5, 1, now),
			Route: &model.Route{
				Origin: "Quriyat Terminal", Destination: "Sur Distribution Hub",
				EstimatedArrival: now.Add(90 * time.Minute), Progress: 75,
			},
		},
	}
}

func rectFence(lng1, lat1, lng2, lat2 float64) model.Geofence {
	return model.Geofence{
		Type: "Polygon",
		Coordinates: [][][2]float64{{
			{lng1, lat1}, {lng2, lat1}, {lng2, lat2}, {lng1, lat2}, {lng1, lat1},
		}},
	}
}

func sensors(lat, lng, speed, heading, totalFuel, flowRate, pitch, roll float64, now time.Time) model.SensorData {
	return model.SensorData{
		GPS:  model.GPSReading{Lat: lat, Lng: lng, Speed: speed, Heading: heading, Timestamp: now},
		Fuel: model.FuelReading{TotalFuel: totalFuel, FlowRate: flowRate, Timestamp: now},
		Tilt: model.TiltReading{Pitch: pitch, Roll: roll, Yaw: heading, Timestamp: now},
		Valve: model.ValveReading{
			DrainOpen: false, DrainComplete: false,
			MainValve: model.ValveClosed, Timestamp: now,
		},
	}
}
