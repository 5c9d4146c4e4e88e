package posekit

// Point is a 3 component position vector.  For normalized screen space
// landmarks X and Y are in [0,1] relative to the video frame and Z is a
// relative depth.  For world space landmarks all components are in meters
// with the origin at the hip midpoint.
type Point struct {
	X float64
	Y float64
	Z float64
}

// Landmark is one tracked anatomical point in one video frame
type Landmark struct {
	// Index is the landmark identifier, 0 to 32, with fixed semantic
	// meaning per the 33-point body model
	Index int
	// Position of the landmark
	Position Point
	// Confidence is the upstream inference engine's certainty in the
	// landmark position, in [0,1]
	Confidence float64
}

// Frame is one full set of body landmarks produced by a single inference
// callback
type Frame struct {
	// Timestamp is the capture time in milliseconds
	Timestamp float64
	// FrameCount is the sequence number assigned by the frame source
	FrameCount int
	// PersonID identifies the detected person the landmarks belong to
	PersonID int
	// Landmarks holds the 33 normalized screen space samples, indexed by
	// landmark index
	Landmarks []Landmark
	// WorldLandmarks optionally holds the 33 metric world space samples.
	// Empty when the frame source does not supply them.
	WorldLandmarks []Landmark
	// VideoWidth and VideoHeight are the source video dimensions in pixels
	VideoWidth  int
	VideoHeight int
}

// clamp01 limits v to the range [0,1]
func clamp01(v float64) float64 {

	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}

// validLandmarkSet reports whether lms is a complete landmark set, exactly
// 33 samples covering indices 0..32 with no index missing or duplicated
func validLandmarkSet(lms []Landmark) bool {

	if len(lms) != LandmarkCount {
		return false
	}

	var seen [LandmarkCount]bool

	for _, lm := range lms {
		if lm.Index < 0 || lm.Index >= LandmarkCount || seen[lm.Index] {
			return false
		}
		seen[lm.Index] = true
	}

	return true
}

// ParseFrame validates one frame of landmark samples and returns them
// ordered by landmark index with confidences clamped to [0,1].  Frame drops
// and partial detections are expected under normal camera jitter, so a
// malformed set (wrong count, out of range or duplicate indices) returns
// ok=false rather than an error and the caller keeps its previous pose.
//
// world may be nil.  A world landmark set that is itself malformed is
// discarded while the normalized set is kept.
func ParseFrame(landmarks, world []Landmark) (Frame, bool) {

	if !validLandmarkSet(landmarks) {
		return Frame{}, false
	}

	f := Frame{
		Landmarks: orderLandmarks(landmarks),
	}

	if validLandmarkSet(world) {
		f.WorldLandmarks = orderLandmarks(world)
	}

	return f, true
}

// orderLandmarks returns a copy of lms sorted by landmark index with
// clamped confidence values.  lms must already be a valid landmark set.
func orderLandmarks(lms []Landmark) []Landmark {

	out := make([]Landmark, LandmarkCount)

	for _, lm := range lms {
		lm.Confidence = clamp01(lm.Confidence)
		out[lm.Index] = lm
	}

	return out
}
