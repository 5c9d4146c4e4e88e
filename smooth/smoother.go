package smooth

import (
	"gonum.org/v1/gonum/mat"

	"github.com/poseworks/go-posekit"
)

// SmootherParams configures a landmark Smoother
type SmootherParams struct {
	// StdWeightPosition and StdWeightVelocity control how much the filter
	// trusts measurements over the constant velocity model.  Smaller
	// position weight follows measurements more closely.
	StdWeightPosition float64
	StdWeightVelocity float64
	// MinConfidence is the confidence below which a landmark is treated
	// as absent.  Absent landmarks pass through unsmoothed and their
	// filter state is reset, so a limb re-entering the frame does not get
	// dragged from its stale last position.
	MinConfidence float64
}

// DefaultSmootherParams returns smoothing parameters suitable for 15 to
// 30 Hz landmark input
func DefaultSmootherParams() SmootherParams {
	return SmootherParams{
		StdWeightPosition: 1.0 / 20,
		StdWeightVelocity: 1.0 / 160,
		MinConfidence:     0.3,
	}
}

// landmarkState is the per landmark filter state
type landmarkState struct {
	mean       StateMean
	covariance *StateCov
	active     bool
}

// Smoother runs one constant velocity Kalman filter per landmark of the
// 33-point body model
type Smoother struct {
	// Params are the smoothing configuration parameters
	Params SmootherParams

	kf     *KalmanFilter
	states [posekit.LandmarkCount]landmarkState
}

// NewSmoother returns a Smoother with per landmark filters using the given
// parameters
func NewSmoother(p SmootherParams) *Smoother {
	return &Smoother{
		Params: p,
		kf:     NewKalmanFilter(p.StdWeightPosition, p.StdWeightVelocity),
	}
}

// Reset drops all filter state so the next frame re-initializes every
// landmark
func (s *Smoother) Reset() {

	for i := range s.states {
		s.states[i].active = false
	}
}

// Smooth returns a copy of the frame with filtered normalized landmark
// positions.  Confidence values and world landmarks are passed through
// untouched.  Frames without a complete 33-point landmark set are returned
// unchanged.
func (s *Smoother) Smooth(f posekit.Frame) posekit.Frame {

	if len(f.Landmarks) != posekit.LandmarkCount {
		return f
	}

	out := f
	out.Landmarks = make([]posekit.Landmark, len(f.Landmarks))
	copy(out.Landmarks, f.Landmarks)

	for i := range out.Landmarks {
		lm := &out.Landmarks[i]

		if lm.Index < 0 || lm.Index >= posekit.LandmarkCount {
			continue
		}

		st := &s.states[lm.Index]

		if lm.Confidence < s.Params.MinConfidence {
			st.active = false
			continue
		}

		m := PointMeasurement{lm.Position.X, lm.Position.Y, lm.Position.Z}

		if !st.active {
			st.mean = make(StateMean, 6)
			st.covariance = &StateCov{mat.NewDense(6, 6, nil)}
			s.kf.Initiate(st.mean, st.covariance, m)
			st.active = true
			continue
		}

		s.kf.Predict(st.mean, st.covariance)

		if err := s.kf.Update(st.mean, st.covariance, m); err != nil {
			// numerically degenerate covariance, start over from the
			// raw measurement
			st.active = false
			continue
		}

		lm.Position = posekit.Point{
			X: st.mean[0],
			Y: st.mean[1],
			Z: st.mean[2],
		}
	}

	return out
}

// EMA is a trivial exponential moving average smoother, a cheaper
// alternative to the Kalman filter when latency matters more than accuracy
type EMA struct {
	// Alpha is the blend factor in (0,1].  Values near 1 follow the
	// measurement, values near 0 follow history.
	Alpha float64
	// MinConfidence is the confidence below which a landmark passes
	// through unsmoothed and resets its history
	MinConfidence float64

	prev   [posekit.LandmarkCount]posekit.Point
	active [posekit.LandmarkCount]bool
}

// NewEMA returns an EMA smoother with the given blend factor
func NewEMA(alpha, minConfidence float64) *EMA {
	return &EMA{
		Alpha:         alpha,
		MinConfidence: minConfidence,
	}
}

// Smooth returns a copy of the frame with exponentially averaged landmark
// positions
func (e *EMA) Smooth(f posekit.Frame) posekit.Frame {

	if len(f.Landmarks) != posekit.LandmarkCount {
		return f
	}

	out := f
	out.Landmarks = make([]posekit.Landmark, len(f.Landmarks))
	copy(out.Landmarks, f.Landmarks)

	for i := range out.Landmarks {
		lm := &out.Landmarks[i]

		if lm.Index < 0 || lm.Index >= posekit.LandmarkCount {
			continue
		}

		if lm.Confidence < e.MinConfidence {
			e.active[lm.Index] = false
			continue
		}

		if !e.active[lm.Index] {
			e.prev[lm.Index] = lm.Position
			e.active[lm.Index] = true
			continue
		}

		p := e.prev[lm.Index]
		lm.Position = posekit.Point{
			X: p.X + e.Alpha*(lm.Position.X-p.X),
			Y: p.Y + e.Alpha*(lm.Position.Y-p.Y),
			Z: p.Z + e.Alpha*(lm.Position.Z-p.Z),
		}
		e.prev[lm.Index] = lm.Position
	}

	return out
}
