package relay

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport records sends for assertions
type fakeTransport struct {
	mu        sync.Mutex
	connected bool
	sent      [][]byte
	closed    bool
}

func (f *fakeTransport) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, data)
	return nil
}

func (f *fakeTransport) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) sendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func testMessage() PoseMessage {
	return PoseMessage{
		Timestamp:  1234.5,
		FrameCount: 42,
		VideoInfo:  VideoInfo{Width: 640, Height: 480},
	}
}

func TestPublishFansOutToListeners(t *testing.T) {

	b := NewBroadcaster()

	var got []PoseMessage

	b.Subscribe(func(msg PoseMessage) {
		got = append(got, msg)
	})

	b.Publish(testMessage())

	require.Len(t, got, 1)
	assert.Equal(t, 42, got[0].FrameCount)
}

func TestPublishDisabledSendsNothing(t *testing.T) {

	b := NewBroadcaster()

	ft := &fakeTransport{connected: true}
	b.AttachTransport(ft)

	calls := 0
	b.Subscribe(func(PoseMessage) { calls++ })

	b.SetEnabled(false)
	b.Publish(testMessage())

	assert.Equal(t, 0, ft.sendCount(), "expected zero transport sends")
	assert.Equal(t, 0, calls, "expected zero listener invocations")

	// re-enabling resumes delivery
	b.SetEnabled(true)
	b.Publish(testMessage())

	assert.Equal(t, 1, ft.sendCount())
	assert.Equal(t, 1, calls)
}

func TestPublishSkipsDisconnectedTransport(t *testing.T) {

	b := NewBroadcaster()

	down := &fakeTransport{connected: false}
	up := &fakeTransport{connected: true}
	b.AttachTransport(down)
	b.AttachTransport(up)

	b.Publish(testMessage())

	assert.Equal(t, 0, down.sendCount(), "disconnected transport must be a no-op")
	assert.Equal(t, 1, up.sendCount())
}

func TestDuplicateSubscriptionsGetDuplicateDeliveries(t *testing.T) {

	b := NewBroadcaster()

	calls := 0
	fn := func(PoseMessage) { calls++ }

	// the same callback registered twice is two listeners, deliveries are
	// not merged into a single stream
	b.Subscribe(fn)
	b.Subscribe(fn)

	b.Publish(testMessage())

	assert.Equal(t, 2, calls)
}

func TestSubscribeCancel(t *testing.T) {

	b := NewBroadcaster()

	calls := 0
	cancel := b.Subscribe(func(PoseMessage) { calls++ })

	b.Publish(testMessage())
	cancel()
	b.Publish(testMessage())

	assert.Equal(t, 1, calls)

	// cancelling twice is harmless
	cancel()
}

func TestCloseClosesTransports(t *testing.T) {

	b := NewBroadcaster()

	ft := &fakeTransport{connected: true}
	b.AttachTransport(ft)

	b.Close()

	assert.True(t, ft.closed)

	// publishing after close only reaches listeners
	calls := 0
	b.Subscribe(func(PoseMessage) { calls++ })
	b.Publish(testMessage())

	assert.Equal(t, 0, ft.sendCount())
	assert.Equal(t, 1, calls)
}
