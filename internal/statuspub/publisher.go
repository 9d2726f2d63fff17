// Package statuspub is the optional network boundary between the engine
// core and an external renderer (out of scope per spec.md §1). It never
// reads engine state itself; it only relays the StatusEvent values the
// engine already computed, over a WebSocket, to whatever UI chooses to
// connect.
package statuspub

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"reactivesheet/internal/engine"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Publisher fans a stream of StatusEvents out to every connected
// WebSocket client.
type Publisher struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	logger  *slog.Logger
}

func NewPublisher(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{clients: make(map[*websocket.Conn]struct{}), logger: logger}
}

// wireEvent is the JSON shape sent to subscribers.
type wireEvent struct {
	Status string `json:"status"`
	Cell   string `json:"cell,omitempty"`
	Value  int32  `json:"value,omitempty"`
	IsErr  bool   `json:"is_error,omitempty"`
}

// Publish is registered as the engine Context's OnStatus hook.
func (p *Publisher) Publish(ev engine.StatusEvent) {
	wire := wireEvent{Status: ev.Status.String(), Value: ev.Value, IsErr: ev.IsErr}
	if ev.Cell != nil {
		wire.Cell = ev.Cell.String()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for conn := range p.clients {
		if err := conn.WriteJSON(wire); err != nil {
			p.logger.Warn("statuspub: write failed, dropping client", "error", err)
			_ = conn.Close()
			delete(p.clients, conn)
		}
	}
}

// HandleWebSocket upgrades an HTTP request to a WebSocket and registers
// the connection as a subscriber until it disconnects.
func (p *Publisher) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		p.logger.Warn("statuspub: upgrade failed", "error", err)
		return
	}

	p.mu.Lock()
	p.clients[conn] = struct{}{}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.clients, conn)
		p.mu.Unlock()
		_ = conn.Close()
	}()

	// Subscribers are read-only observers; drain and discard any inbound
	// message so control frames are processed and a disconnect ends the
	// loop, deregistering the client.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// ListenAndServe starts an HTTP server on addr exposing the publisher at
// "/status". It blocks until the server stops or errors.
func (p *Publisher) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", p.HandleWebSocket)
	return http.ListenAndServe(addr, mux)
}
