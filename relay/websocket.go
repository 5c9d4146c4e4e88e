package relay

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocketTransport delivers frames over an outbound WebSocket connection.
// A transport that fails to connect, or whose connection drops, simply
// reports not connected and frames published meanwhile are lost; callers
// decide if and when to reconnect.
type WebSocketTransport struct {
	url  string
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWebSocketTransport returns a transport for the given ws:// or wss://
// URL.  The transport starts disconnected, call Connect before publishing.
func NewWebSocketTransport(url string) *WebSocketTransport {
	return &WebSocketTransport{
		url: url,
	}
}

// DialWebSocket returns a transport connected to the given URL
func DialWebSocket(url string) (*WebSocketTransport, error) {

	t := NewWebSocketTransport(url)

	if err := t.Connect(); err != nil {
		return nil, err
	}

	return t, nil
}

// Connect dials the relay endpoint, replacing any existing connection
func (t *WebSocketTransport) Connect() error {

	conn, _, err := websocket.DefaultDialer.Dial(t.url, nil)

	if err != nil {
		return fmt.Errorf("error dialing relay %s: %w", t.url, err)
	}

	t.mu.Lock()
	old := t.conn
	t.conn = conn
	t.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}

	return nil
}

// Connected reports whether the transport holds an open connection
func (t *WebSocketTransport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}

// Send writes one frame as a text message.  A write failure drops the
// connection and the frame, there is no retry.
func (t *WebSocketTransport) Send(data []byte) error {

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}

	if err := t.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		_ = t.conn.Close()
		t.conn = nil
		return fmt.Errorf("error writing to relay: %w", err)
	}

	return nil
}

// Close closes the connection if one is open
func (t *WebSocketTransport) Close() error {

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}

	err := t.conn.Close()
	t.conn = nil

	return err
}
