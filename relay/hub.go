package relay

import (
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub is the server side of the relay: it accepts WebSocket clients and
// fans every message received from one client out to all the others, plus
// whatever is pushed in via Broadcast.  Delivery is best effort, a client
// whose write fails is dropped.
type Hub struct {
	// OnMessage, when set, is invoked for every message received from a
	// client before it is re-broadcast
	OnMessage func(data []byte)
	// OnBroadcast, when set, is invoked after every fan-out with the
	// number of clients the frame was actually delivered to
	OnBroadcast func(delivered int)
	// ReadLimit is the maximum inbound message size in bytes
	ReadLimit int64

	log      *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewHub returns a Hub logging through the given logger.  A nil logger
// discards logs.
func NewHub(log *slog.Logger) *Hub {

	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Hub{
		ReadLimit: 1 << 20,
		log:       log,
		upgrader: websocket.Upgrader{
			// the relay is an open fan-out endpoint, origin checks are
			// the deployment's concern
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request to a WebSocket connection and runs its read
// loop until the client disconnects
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {

	conn, err := h.upgrader.Upgrade(w, r, nil)

	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	conn.SetReadLimit(h.ReadLimit)

	h.mu.Lock()
	h.clients[conn] = true
	count := len(h.clients)
	h.mu.Unlock()

	h.log.Info("relay client connected", "remote", conn.RemoteAddr().String(),
		"clients", count)

	defer h.drop(conn)

	for {
		msgType, data, err := conn.ReadMessage()

		if err != nil {
			return
		}

		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}

		if h.OnMessage != nil {
			h.OnMessage(data)
		}

		h.broadcast(msgType, data, conn)
	}
}

// Broadcast pushes one message to every connected client
func (h *Hub) Broadcast(data []byte) int {
	return h.broadcast(websocket.TextMessage, data, nil)
}

// broadcast writes the message to all clients except the sender and
// returns the number of successful deliveries
func (h *Hub) broadcast(msgType int, data []byte, except *websocket.Conn) int {

	h.mu.Lock()

	sent := 0

	for conn := range h.clients {
		if conn == except {
			continue
		}

		if err := conn.WriteMessage(msgType, data); err != nil {
			// dead client, drop without retry
			delete(h.clients, conn)
			_ = conn.Close()
			continue
		}

		sent++
	}

	h.mu.Unlock()

	if h.OnBroadcast != nil {
		h.OnBroadcast(sent)
	}

	return sent
}

// drop removes the connection from the client set
func (h *Hub) drop(conn *websocket.Conn) {

	h.mu.Lock()
	delete(h.clients, conn)
	count := len(h.clients)
	h.mu.Unlock()

	_ = conn.Close()

	h.log.Info("relay client disconnected", "remote", conn.RemoteAddr().String(),
		"clients", count)
}

// Close disconnects all clients
func (h *Hub) Close() {

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		_ = conn.Close()
		delete(h.clients, conn)
	}
}
