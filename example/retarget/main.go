// Example of retargeting synthetic landmark frames onto the default
// procedural rig, printing the per segment transforms produced each frame.
package main

import (
	"flag"
	"log"
	"math"

	"github.com/poseworks/go-posekit"
	"github.com/poseworks/go-posekit/retarget"
	"github.com/poseworks/go-posekit/smooth"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	frames := flag.Int("n", 10, "Number of synthetic frames to retarget")
	threshold := flag.Float64("t", 0.5, "Landmark confidence threshold [0..1]")
	useSmooth := flag.Bool("s", false, "Run landmarks through the Kalman smoother")
	flag.Parse()

	params := retarget.StageParams()
	params.ConfidenceThreshold = *threshold

	r := retarget.New(params, nil)
	sm := smooth.NewSmoother(smooth.DefaultSmootherParams())

	for i := 0; i < *frames; i++ {
		f := syntheticFrame(i)

		if *useSmooth {
			f = sm.Smooth(f)
		}

		pose, ok := r.Retarget(f)

		if !ok {
			log.Printf("frame %d: no update", i)
			continue
		}

		log.Printf("frame %d:", i)

		for j, seg := range r.Rig().Segments {
			st := pose.Segments[j]

			if !st.Visible {
				log.Printf("  %-16s hidden", seg.Name)
				continue
			}

			log.Printf("  %-16s pos=(%6.3f %6.3f %6.3f) scale=%5.3f",
				seg.Name, st.Position.X(), st.Position.Y(), st.Position.Z(),
				st.Scale)
		}
	}
}

// syntheticFrame builds a standing figure waving its left arm
func syntheticFrame(n int) posekit.Frame {

	// base standing pose in normalized screen coordinates
	base := map[int]posekit.Point{
		posekit.Nose:          {X: 0.5, Y: 0.2},
		posekit.LeftShoulder:  {X: 0.6, Y: 0.35},
		posekit.RightShoulder: {X: 0.4, Y: 0.35},
		posekit.LeftElbow:     {X: 0.65, Y: 0.5},
		posekit.RightElbow:    {X: 0.35, Y: 0.5},
		posekit.LeftWrist:     {X: 0.68, Y: 0.62},
		posekit.RightWrist:    {X: 0.32, Y: 0.62},
		posekit.LeftHip:       {X: 0.57, Y: 0.6},
		posekit.RightHip:      {X: 0.43, Y: 0.6},
		posekit.LeftKnee:      {X: 0.57, Y: 0.75},
		posekit.RightKnee:     {X: 0.43, Y: 0.75},
		posekit.LeftAnkle:     {X: 0.57, Y: 0.9},
		posekit.RightAnkle:    {X: 0.43, Y: 0.9},
	}

	// swing the left wrist up and down
	phase := float64(n) * 0.4
	base[posekit.LeftWrist] = posekit.Point{
		X: 0.68,
		Y: 0.5 - 0.15*math.Sin(phase),
	}

	lms := make([]posekit.Landmark, posekit.LandmarkCount)

	for i := range lms {
		pos, ok := base[i]

		if !ok {
			// park unanimated landmarks near the body center
			pos = posekit.Point{X: 0.5, Y: 0.5 + 0.005*float64(i)}
		}

		lms[i] = posekit.Landmark{
			Index:      i,
			Position:   pos,
			Confidence: 0.95,
		}
	}

	f, _ := posekit.ParseFrame(lms, nil)
	f.FrameCount = n

	return f
}
