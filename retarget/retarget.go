package retarget

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/poseworks/go-posekit"
)

// Space identifies the coordinate space landmark positions are supplied in
type Space int

const (
	// SpaceNormalized is screen space, x and y in [0,1] relative to the
	// video frame with y growing downward, z a relative depth
	SpaceNormalized Space = iota
	// SpaceWorld is metric space in meters with the origin at the hip
	// midpoint
	SpaceWorld
	// SpaceRig means positions are already in centered rig space and only
	// the global scale factor is applied
	SpaceRig
)

// Params defines the retargeting configuration
type Params struct {
	// Space is the coordinate space the input landmarks are read from.
	// When SpaceWorld is selected but a frame carries no world landmarks
	// the normalized set is used instead.
	Space Space
	// ConfidenceThreshold is the minimum landmark confidence required for
	// a segment endpoint.  A segment with either endpoint below the
	// threshold is hidden for that frame.
	ConfidenceThreshold float64
	// DepthScale multiplies the z component of normalized space landmarks
	DepthScale float64
	// Scale is a global factor applied uniformly after centering
	Scale float64
	// VerticalOffset is added to the y component of world space landmarks
	// before scaling, lifting the hip origin to the rig's hip height
	VerticalOffset float64
	// CanonicalAxis is the rig local unit axis that segment orientations
	// rotate onto the segment direction, typically the local up axis
	CanonicalAxis mgl64.Vec3
	// Epsilon is the minimum segment length.  Shorter segments are
	// treated as degenerate and hidden.
	Epsilon float64
	// PropagateHidden hides a segment whenever any ancestor in the rig
	// hierarchy is hidden.  Default behaviour evaluates each segment's
	// visibility independently from its own two endpoints only, so a
	// momentary shoulder dropout does not blank the whole arm chain.
	PropagateHidden bool
}

// StageParams returns retargeting parameters tuned for stability, with a
// confidence threshold of 0.5 that prefers hiding a segment over animating
// it from an uncertain landmark
func StageParams() Params {
	return Params{
		Space:               SpaceNormalized,
		ConfidenceThreshold: 0.5,
		DepthScale:          0.5,
		Scale:               1.0,
		VerticalOffset:      1.0,
		CanonicalAxis:       mgl64.Vec3{0, 1, 0},
		Epsilon:             1e-6,
	}
}

// PreviewParams returns retargeting parameters tuned for completeness, with
// a confidence threshold of 0.3 that keeps partially occluded limbs moving
func PreviewParams() Params {
	p := StageParams()
	p.ConfidenceThreshold = 0.3
	return p
}

// SegmentTransform is the per frame transform decision for one rig segment
type SegmentTransform struct {
	// Position is the segment midpoint in centered space
	Position mgl64.Vec3
	// Orientation is the unit quaternion rotating the canonical axis onto
	// the segment direction
	Orientation mgl64.Quat
	// Scale is the current segment length divided by its rest length
	Scale float64
	// Visible is false when the segment is hidden for this frame, in
	// which case the other fields are undefined
	Visible bool
}

// JointTransform is the per frame transform decision for one point style
// joint
type JointTransform struct {
	// Position is the joint position in centered space
	Position mgl64.Vec3
	// Visible is false when the joint is hidden for this frame
	Visible bool
}

// Pose holds one frame of rig transforms.  Segments and Joints are parallel
// to the rig's Segments and Joints slices.
type Pose struct {
	Segments []SegmentTransform
	Joints   []JointTransform
}

// Retargeter maps landmark frames onto a rig topology.  It is stateless
// across frames except for retaining the last valid pose, which is returned
// unchanged when a malformed frame arrives.
type Retargeter struct {
	// Params are the retargeting configuration parameters
	Params Params

	rig  *Rig
	prev *Pose
}

// New returns a Retargeter for the given rig topology.  A nil rig uses the
// default procedural rig.
func New(p Params, rig *Rig) *Retargeter {

	if rig == nil {
		rig = DefaultRig()
	}

	return &Retargeter{
		Params: p,
		rig:    rig,
	}
}

// Rig returns the rig topology the retargeter drives
func (r *Retargeter) Rig() *Rig {
	return r.rig
}

// Pose returns the last valid pose, or nil if no valid frame has been
// retargeted yet
func (r *Retargeter) Pose() *Pose {
	return r.prev
}

// Retarget converts one landmark frame into rig transforms, producing
// exactly one decision, visible with values or hidden, per defined segment
// and joint.  A malformed frame (landmark count not 33, duplicate or out of
// range indices) produces no update: the previous pose is returned with
// ok=false and retained, since frame drops are expected under normal camera
// jitter.
func (r *Retargeter) Retarget(f posekit.Frame) (*Pose, bool) {

	points, conf, ok := r.Params.centerFrame(f)

	if !ok {
		return r.prev, false
	}

	pose := &Pose{
		Segments: make([]SegmentTransform, len(r.rig.Segments)),
		Joints:   make([]JointTransform, len(r.rig.Joints)),
	}

	for i, seg := range r.rig.Segments {
		pose.Segments[i] = r.deriveSegment(seg, points, conf)
	}

	for i, jnt := range r.rig.Joints {
		pose.Joints[i] = r.deriveJoint(jnt, points, conf)
	}

	if r.Params.PropagateHidden {
		r.propagateHidden(pose)
	}

	r.prev = pose

	return pose, true
}

// deriveSegment computes the transform decision for one segment from its
// own two endpoints
func (r *Retargeter) deriveSegment(seg Segment, points [posekit.LandmarkCount]mgl64.Vec3,
	conf [posekit.LandmarkCount]float64) SegmentTransform {

	if conf[seg.Start] < r.Params.ConfidenceThreshold ||
		conf[seg.End] < r.Params.ConfidenceThreshold {
		return SegmentTransform{}
	}

	start := points[seg.Start]
	end := points[seg.End]

	delta := end.Sub(start)
	length := delta.Len()

	// zero length bones have no direction to align to
	if length < r.Params.Epsilon {
		return SegmentTransform{}
	}

	direction := delta.Mul(1.0 / length)

	return SegmentTransform{
		Position:    start.Add(end).Mul(0.5),
		Orientation: shortestArc(r.Params.CanonicalAxis, direction),
		Scale:       length / seg.RestLength,
		Visible:     true,
	}
}

// shortestArc returns the unit quaternion rotating unit vector from onto
// unit vector to along the shortest arc, via the half-vector form
// (1+from·to, from×to) normalized.  The form stays accurate arbitrarily
// close to antiparallel; only a genuinely degenerate cross product falls
// back to a 180 degree rotation about a perpendicular axis.
func shortestArc(from, to mgl64.Vec3) mgl64.Quat {

	w := 1 + from.Dot(to)
	v := from.Cross(to)

	if w < 1e-12 && v.Len() < 1e-12 {
		axis := from.Cross(mgl64.Vec3{1, 0, 0})

		if axis.Len() < 1e-12 {
			axis = from.Cross(mgl64.Vec3{0, 1, 0})
		}

		return mgl64.Quat{W: 0, V: axis.Normalize()}
	}

	return mgl64.Quat{W: w, V: v}.Normalize()
}

// deriveJoint computes the transform decision for one point style joint.
// Joints anchored to multiple landmarks resolve to their midpoint.
func (r *Retargeter) deriveJoint(jnt Joint, points [posekit.LandmarkCount]mgl64.Vec3,
	conf [posekit.LandmarkCount]float64) JointTransform {

	var sum mgl64.Vec3

	for _, idx := range jnt.Indexes {
		if conf[idx] < r.Params.ConfidenceThreshold {
			return JointTransform{}
		}
		sum = sum.Add(points[idx])
	}

	return JointTransform{
		Position: sum.Mul(1.0 / float64(len(jnt.Indexes))),
		Visible:  true,
	}
}

// propagateHidden hides segments whose ancestors are hidden.  Parent links
// always point to earlier entries in the segment slice so a single forward
// pass settles the whole hierarchy.
func (r *Retargeter) propagateHidden(pose *Pose) {

	for i, seg := range r.rig.Segments {
		if seg.Parent >= 0 && !pose.Segments[seg.Parent].Visible {
			pose.Segments[i].Visible = false
		}
	}
}
