package stream

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gmahli/fsaas/core/model"
	"github.com/gmahli/fsaas/internal/eventbus"
)

func dialHub(t *testing.T) (*Hub, eventbus.EventBus, *websocket.Conn) {
	t.Helper()
	bus := eventbus.New()
	hub := NewHub(bus, nil)
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)
	t.Cleanup(hub.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return hub, bus, conn
}

func readFrame(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f struct {
		Kind string          `json:"kind"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(msg, &f); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return f.Kind, f.Data
}

func TestHubStreamsVehicleUpdates(t *testing.T) {
	_, bus, conn := dialHub(t)

	// The subscription is racy with the dial; retry until the pump sees us.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-time.After(10 * time.Millisecond):
				bus.Publish(eventbus.VehicleUpdated{Vehicle: model.Vehicle{ID: "VHC-001"}})
			case <-done:
				return
			}
		}
	}()
	kind, data := readFrame(t, conn)
	done <- struct{}{}

	if kind != "vehicle" {
		t.Fatalf("kind: %s", kind)
	}
	var v model.Vehicle
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatal(err)
	}
	if v.ID != "VHC-001" {
		t.Fatalf("vehicle: %+v", v)
	}
}

func TestHubStreamsAlerts(t *testing.T) {
	_, bus, conn := dialHub(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-time.After(10 * time.Millisecond):
				bus.Publish(eventbus.AlertRaised{Alert: model.Alert{ID: "a1", VehicleID: "VHC-002"}, Source: "engine"})
			case <-done:
				return
			}
		}
	}()
	kind, data := readFrame(t, conn)
	done <- struct{}{}

	if kind != "alert" {
		t.Fatalf("kind: %s", kind)
	}
	var a model.Alert
	if err := json.Unmarshal(data, &a); err != nil {
		t.Fatal(err)
	}
	if a.ID != "a1" {
		t.Fatalf("alert: %+v", a)
	}
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	hub, _, conn := dialHub(t)
	hub.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("read succeeded after hub close")
	}
}
