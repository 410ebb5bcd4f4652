// Package stream pushes live fleet events to dashboard clients over
// WebSocket, bridging the in-process event bus.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gmahli/fsaas/infra/logger"
	"github.com/gmahli/fsaas/internal/eventbus"
)

const writeWait = 5 * time.Second

// frame is the wire envelope sent to clients.
type frame struct {
	Kind string `json:"kind"` // "vehicle" or "alert"
	Data any    `json:"data"`
}

// Hub fans eventbus events out to connected WebSocket clients. Slow
// clients are disconnected rather than back-pressuring the bus.
type Hub struct {
	bus      eventbus.EventBus
	log      logger.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]chan frame
	done  chan struct{}
}

// NewHub creates a hub and starts pumping bus events.
func NewHub(bus eventbus.EventBus, log logger.Logger) *Hub {
	if log == nil {
		log = logger.NopLogger{}
	}
	h := &Hub{
		bus:   bus,
		log:   log,
		conns: map[*websocket.Conn]chan frame{},
		done:  make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The dashboard is served from arbitrary dev origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	go h.pump()
	return h
}

// ServeHTTP upgrades the connection and streams frames until the client
// goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("ws upgrade: %v", err)
		return
	}
	ch := make(chan frame, 32)
	h.mu.Lock()
	h.conns[conn] = ch
	h.mu.Unlock()

	go h.writer(conn, ch)
	// Reader loop only to notice disconnects; inbound messages are ignored.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(conn)
}

// Close disconnects all clients and stops the pump.
func (h *Hub) Close() {
	select {
	case <-h.done:
		return
	default:
	}
	close(h.done)
	h.mu.Lock()
	for conn, ch := range h.conns {
		close(ch)
		_ = conn.Close()
	}
	h.conns = map[*websocket.Conn]chan frame{}
	h.mu.Unlock()
}

func (h *Hub) pump() {
	sub := h.bus.Subscribe()
	defer h.bus.Unsubscribe(sub)
	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				return
			}
			var f frame
			switch e := ev.(type) {
			case eventbus.VehicleUpdated:
				f = frame{Kind: "vehicle", Data: e.Vehicle}
			case eventbus.AlertRaised:
				f = frame{Kind: "alert", Data: e.Alert}
			default:
				continue
			}
			h.broadcast(f)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) broadcast(f frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.conns {
		select {
		case ch <- f:
		default:
			// Slow consumer; cut it loose.
			close(ch)
			delete(h.conns, conn)
			_ = conn.Close()
		}
	}
}

func (h *Hub) writer(conn *websocket.Conn, ch chan frame) {
	for f := range ch {
		b, err := json.Marshal(f)
		if err != nil {
			h.log.Errorf("ws encode: %v", err)
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			break
		}
	}
	h.drop(conn)
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		close(ch)
	}
	h.mu.Unlock()
	_ = conn.Close()
}
