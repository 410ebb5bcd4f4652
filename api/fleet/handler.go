// Package fleet exposes the dashboard's JSON API over net/http.
package fleet

import (
	"encoding/json"
	"net/http"

	"github.com/gmahli/fsaas/core/analytics"
	"github.com/gmahli/fsaas/core/auth"
	corefleet "github.com/gmahli/fsaas/core/fleet"
	"github.com/gmahli/fsaas/core/model"
	"github.com/gmahli/fsaas/core/sim"
	"github.com/gmahli/fsaas/infra/logger"
)

// Handler serves fleet, alert and scenario endpoints. All fleet reads are
// filtered by the logged-in user's role scope.
type Handler struct {
	store  *corefleet.Store
	auth   *auth.Store
	runner *sim.Runner
	log    logger.Logger
}

// New wires the handler. runner may be nil to disable scenario triggers.
func New(store *corefleet.Store, authStore *auth.Store, runner *sim.Runner, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Handler{store: store, auth: authStore, runner: runner, log: log}
}

// Register attaches all routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", h.login)
	mux.HandleFunc("POST /api/logout", h.logout)
	mux.HandleFunc("GET /api/fleet", h.listFleet)
	mux.HandleFunc("GET /api/fleet/{id}", h.getVehicle)
	mux.HandleFunc("POST /api/fleet/{id}/select", h.selectVehicle)
	mux.HandleFunc("GET /api/alerts", h.listAlerts)
	mux.HandleFunc("POST /api/alerts/{id}/ack", h.ackAlert)
	mux.HandleFunc("POST /api/scenario", h.triggerScenario)
	mux.HandleFunc("GET /api/analytics/kpi", h.kpi)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !h.auth.Login(req.Email, req.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, h.auth.Session())
}

func (h *Handler) logout(w http.ResponseWriter, _ *http.Request) {
	h.auth.Logout()
	w.WriteHeader(http.StatusNoContent)
}

// user returns the session user or writes 401.
func (h *Handler) user(w http.ResponseWriter) *model.User {
	if !h.auth.CheckAuth() {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return nil
	}
	return h.auth.User()
}

type fleetResponse struct {
	Vehicles  []model.Vehicle `json:"vehicles"`
	Selected  string          `json:"selectedVehicleId,omitempty"`
	Connected bool            `json:"isConnected"`
}

func (h *Handler) listFleet(w http.ResponseWriter, _ *http.Request) {
	u := h.user(w)
	if u == nil {
		return
	}
	writeJSON(w, fleetResponse{
		Vehicles:  h.store.VehiclesByRole(u.Role, u.AssignedVehicleIDs),
		Selected:  h.store.Selected(),
		Connected: h.store.Connected(),
	})
}

func (h *Handler) getVehicle(w http.ResponseWriter, r *http.Request) {
	u := h.user(w)
	if u == nil {
		return
	}
	id := r.PathValue("id")
	v, ok := h.store.VehicleByID(id)
	if !ok || !u.CanSee(id) {
		http.Error(w, "vehicle not found", http.StatusNotFound)
		return
	}
	writeJSON(w, v)
}

func (h *Handler) selectVehicle(w http.ResponseWriter, r *http.Request) {
	u := h.user(w)
	if u == nil {
		return
	}
	id := r.PathValue("id")
	if id == "-" {
		id = "" // clear selection
	}
	h.store.Select(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listAlerts(w http.ResponseWriter, _ *http.Request) {
	u := h.user(w)
	if u == nil {
		return
	}
	alerts := h.store.Alerts()
	if u.Role != model.RoleManager {
		scoped := alerts[:0]
		for _, a := range alerts {
			if u.CanSee(a.VehicleID) {
				scoped = append(scoped, a)
			}
		}
		alerts = scoped
	}
	writeJSON(w, alerts)
}

// ackAlert always answers 204: unknown ids are a silent no-op and
// acknowledgment is idempotent.
func (h *Handler) ackAlert(w http.ResponseWriter, r *http.Request) {
	if h.user(w) == nil {
		return
	}
	h.store.Acknowledge(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

type scenarioRequest struct {
	VehicleID string `json:"vehicleId"`
	Scenario  string `json:"scenario"`
}

func (h *Handler) triggerScenario(w http.ResponseWriter, r *http.Request) {
	u := h.user(w)
	if u == nil {
		return
	}
	if h.runner == nil {
		http.Error(w, "scenario triggers disabled", http.StatusServiceUnavailable)
		return
	}
	var req scenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	sc, err := sim.ParseScenario(req.Scenario)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !u.CanSee(req.VehicleID) {
		http.Error(w, "vehicle not found", http.StatusNotFound)
		return
	}
	if err := h.runner.Trigger(req.VehicleID, sc); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) kpi(w http.ResponseWriter, _ *http.Request) {
	u := h.user(w)
	if u == nil {
		return
	}
	writeJSON(w, analytics.Compute(h.store.VehiclesByRole(u.Role, u.AssignedVehicleIDs)))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
