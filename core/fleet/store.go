// Package fleet holds the single source of truth for vehicle and alert
// state. The store is constructor-injected wherever it is needed; there is
// no package-level instance.
package fleet

import (
	"sync"

	"github.com/gmahli/fsaas/core/model"
)

const (
	// MaxGlobalAlerts caps the fleet-wide alert log.
	MaxGlobalAlerts = 50
	// MaxVehicleAlerts caps each vehicle's recent-alert view.
	MaxVehicleAlerts = 10
)

// Store keeps the fleet, the alert log, the UI selection pointer and the
// connection flag. All reads return deep-copied snapshots; all writes are
// atomic per entity.
//
// Alerts are stored once, keyed by id. The global log and the per-vehicle
// views are ordered id lists over the same records, so the two views cannot
// diverge on acknowledgment. A record is dropped only once no list
// references it, which preserves the old behaviour where a vehicle's recent
// alerts outlive global-log eviction.
type Store struct {
	mu        sync.RWMutex
	vehicles  []model.Vehicle
	index     map[string]int
	records   map[string]*model.Alert
	log       []string            // newest first, cap MaxGlobalAlerts
	byVehicle map[string][]string // newest first, cap MaxVehicleAlerts
	selected  string
	connected bool
}

// NewStore creates an empty, connected store.
func NewStore() *Store {
	return &Store{
		index:     map[string]int{},
		records:   map[string]*model.Alert{},
		byVehicle: map[string][]string{},
		connected: true,
	}
}

// SetVehicles replaces the entire fleet. The caller is trusted; no
// validation is performed. Seed order is preserved because the simulation
// derives per-vehicle drift patterns from fleet position.
func (s *Store) SetVehicles(vehicles []model.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles = make([]model.Vehicle, len(vehicles))
	s.index = make(map[string]int, len(vehicles))
	for i, v := range vehicles {
		c := v.Clone()
		c.Alerts = nil // alert views are derived, not stored on the vehicle
		s.vehicles[i] = c
		s.index[v.ID] = i
	}
}

// Apply runs fn against the vehicle with the given id under the store lock.
// It is the partial-update primitive: fn mutates exactly the fields it
// cares about and the replacement is observed atomically. Returns false
// (and does nothing) when the id is unknown.
func (s *Store) Apply(id string, fn func(*model.Vehicle)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return false
	}
	fn(&s.vehicles[i])
	return true
}

// Select sets the dashboard focus pointer. Purely cosmetic.
func (s *Store) Select(id string) {
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()
}

// Selected returns the focused vehicle id, empty when none.
func (s *Store) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// AddAlert prepends the alert to the global log and to the owning vehicle's
// view, truncating both. Duplicate alerts for the same rule are expected;
// no deduplication happens here.
func (s *Store) AddAlert(a model.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := a
	s.records[a.ID] = &rec
	s.log = prepend(s.log, a.ID)
	if len(s.log) > MaxGlobalAlerts {
		evicted := s.log[MaxGlobalAlerts:]
		s.log = s.log[:MaxGlobalAlerts]
		for _, id := range evicted {
			s.dropIfUnreferenced(id)
		}
	}
	lst := prepend(s.byVehicle[a.VehicleID], a.ID)
	if len(lst) > MaxVehicleAlerts {
		evicted := lst[MaxVehicleAlerts:]
		lst = lst[:MaxVehicleAlerts]
		s.byVehicle[a.VehicleID] = lst
		for _, id := range evicted {
			s.dropIfUnreferenced(id)
		}
	} else {
		s.byVehicle[a.VehicleID] = lst
	}
}

// Acknowledge marks the alert acknowledged. Unknown ids are a silent no-op;
// re-acknowledging is idempotent. Both the global log and the vehicle view
// observe the change because they share the record.
func (s *Store) Acknowledge(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		rec.Acknowledged = true
	}
}

// SetConnected flips the link indicator shown in the dashboard header.
func (s *Store) SetConnected(c bool) {
	s.mu.Lock()
	s.connected = c
	s.mu.Unlock()
}

// Connected reports the link indicator.
func (s *Store) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Alerts returns the global log, newest first.
func (s *Store) Alerts() []model.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.log)
}

// VehicleAlerts returns the vehicle's recent alerts, newest first.
func (s *Store) VehicleAlerts(vehicleID string) []model.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.byVehicle[vehicleID])
}

// VehicleByID returns a snapshot of one vehicle with its alert view
// resolved. The second return is false for unknown ids.
func (s *Store) VehicleByID(id string) (model.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return model.Vehicle{}, false
	}
	return s.snapshot(i), true
}

// Vehicles returns a snapshot of the whole fleet in seed order.
func (s *Store) Vehicles() []model.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Vehicle, len(s.vehicles))
	for i := range s.vehicles {
		out[i] = s.snapshot(i)
	}
	return out
}

// VehiclesByRole applies the visibility scope: managers see the full fleet,
// everyone else only the assigned ids.
func (s *Store) VehiclesByRole(role model.Role, assignedIDs []string) []model.Vehicle {
	all := s.Vehicles()
	if role == model.RoleManager {
		return all
	}
	assigned := make(map[string]struct{}, len(assignedIDs))
	for _, id := range assignedIDs {
		assigned[id] = struct{}{}
	}
	out := make([]model.Vehicle, 0, len(assignedIDs))
	for _, v := range all {
		if _, ok := assigned[v.ID]; ok {
			out = append(out, v)
		}
	}
	return out
}

// snapshot must be called with at least a read lock held.
func (s *Store) snapshot(i int) model.Vehicle {
	v := s.vehicles[i].Clone()
	v.Alerts = s.resolve(s.byVehicle[v.ID])
	return v
}

// resolve must be called with at least a read lock held.
func (s *Store) resolve(ids []string) []model.Alert {
	out := make([]model.Alert, 0, len(ids))
	for _, id := range ids {
		if rec, ok := s.records[id]; ok {
			out = append(out, *rec)
		}
	}
	return out
}

// dropIfUnreferenced must be called with the write lock held.
func (s *Store) dropIfUnreferenced(id string) {
	rec, ok := s.records[id]
	if !ok {
		return
	}
	if contains(s.log, id) || contains(s.byVehicle[rec.VehicleID], id) {
		return
	}
	delete(s.records, id)
}

func prepend(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, id)
	return append(out, ids...)
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
