// Example of publishing pose frames to a running relayd instance over
// WebSocket and watching the in-process listener fire alongside.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/poseworks/go-posekit"
	"github.com/poseworks/go-posekit/relay"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	url := flag.String("u", "ws://localhost:8093/ws", "relayd WebSocket URL")
	count := flag.Int("n", 30, "Number of frames to publish")
	interval := flag.Duration("i", 33*time.Millisecond, "Delay between frames")
	flag.Parse()

	b := relay.NewBroadcaster()
	defer b.Close()

	ws, err := relay.DialWebSocket(*url)

	if err != nil {
		// keep going, the relay silently no-ops unconnected transports
		log.Printf("relay not reachable, publishing to listeners only: %v", err)
		b.AttachTransport(relay.NewWebSocketTransport(*url))
	} else {
		b.AttachTransport(ws)
	}

	cancel := b.Subscribe(func(msg relay.PoseMessage) {
		log.Printf("frame %d published at %.0f", msg.FrameCount, msg.Timestamp)
	})
	defer cancel()

	lms := make([]posekit.Landmark, posekit.LandmarkCount)

	for i := range lms {
		lms[i] = posekit.Landmark{
			Index:      i,
			Position:   posekit.Point{X: 0.5, Y: 0.5},
			Confidence: 1.0,
		}
	}

	for n := 0; n < *count; n++ {
		frame := posekit.Frame{
			Timestamp:   float64(time.Now().UnixMilli()),
			FrameCount:  n,
			Landmarks:   lms,
			VideoWidth:  1280,
			VideoHeight: 720,
		}

		b.Publish(relay.MessageFromFrames(frame))
		time.Sleep(*interval)
	}
}
