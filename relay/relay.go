// Package relay fans pose frames out to other processes and in-process
// listeners.  It is a fire and forget broadcaster: no acknowledgement, no
// backpressure, no retry, and no ordering guarantee beyond publish call
// order.  A transport that is not connected silently drops the frame.
package relay

import (
	"encoding/json"
	"sync"
)

// Transport delivers an encoded frame to one outbound channel
type Transport interface {
	// Send delivers one encoded frame.  Errors mean the frame was
	// dropped, the broadcaster never retries.
	Send(data []byte) error
	// Connected reports whether the transport can currently deliver
	Connected() bool
	// Close releases the transport
	Close() error
}

// Broadcaster publishes pose frames to zero or more transports and any
// registered in-process listeners.  Listeners are invoked once per received
// frame, at most once per underlying delivery; a callback registered twice
// is invoked twice.
type Broadcaster struct {
	mu         sync.Mutex
	enabled    bool
	nextID     int
	listeners  map[int]func(PoseMessage)
	transports []Transport
}

// NewBroadcaster returns an enabled Broadcaster with no transports attached
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		enabled:   true,
		listeners: make(map[int]func(PoseMessage)),
	}
}

// SetEnabled turns publishing on or off.  While disabled, Publish performs
// zero transport sends and zero listener invocations.
func (b *Broadcaster) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
}

// Enabled reports whether publishing is on
func (b *Broadcaster) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

// AttachTransport adds an outbound transport to fan frames out to
func (b *Broadcaster) AttachTransport(t Transport) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transports = append(b.transports, t)
}

// Subscribe registers a listener invoked once per published frame.  The
// returned cancel function removes the listener.
func (b *Broadcaster) Subscribe(fn func(PoseMessage)) (cancel func()) {

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

// Publish fans one frame out to every connected transport and every
// registered listener.  Transport failures are swallowed, a frame missed by
// one channel is simply lost to it.
func (b *Broadcaster) Publish(msg PoseMessage) {

	b.mu.Lock()

	if !b.enabled {
		b.mu.Unlock()
		return
	}

	transports := make([]Transport, len(b.transports))
	copy(transports, b.transports)

	listeners := make([]func(PoseMessage), 0, len(b.listeners))

	for _, fn := range b.listeners {
		listeners = append(listeners, fn)
	}

	b.mu.Unlock()

	if len(transports) > 0 {
		data, err := json.Marshal(msg)

		if err == nil {
			for _, t := range transports {
				if !t.Connected() {
					continue
				}
				_ = t.Send(data)
			}
		}
	}

	for _, fn := range listeners {
		fn(msg)
	}
}

// Close closes all attached transports
func (b *Broadcaster) Close() {

	b.mu.Lock()
	transports := b.transports
	b.transports = nil
	b.mu.Unlock()

	for _, t := range transports {
		_ = t.Close()
	}
}
