package retarget

import "github.com/poseworks/go-posekit"

// Segment is a rigid bone anchored between two landmarks
type Segment struct {
	// Name identifies the segment
	Name string
	// Start and End are the landmark indices defining the segment's
	// anchor points
	Start int
	End   int
	// RestLength is the segment's reference length in rig space, used to
	// compute the per frame scale factor
	RestLength float64
	// Parent is the index of the parent segment within the rig's segment
	// slice, or -1 for a root segment.  Only consulted when hidden state
	// propagation is enabled.
	Parent int
}

// Joint is a point style anchor that is not rendered as an elongated
// segment, such as the head.  Joints spanning multiple landmarks resolve to
// the midpoint of their anchor points.
type Joint struct {
	// Name identifies the joint
	Name string
	// Indexes are the landmark indices the joint is anchored to
	Indexes []int
}

// Rig is a fixed list of segment and joint definitions making up the target
// skeleton topology
type Rig struct {
	Segments []Segment
	Joints   []Joint
}

// DefaultRig returns the procedural rig topology covering the torso box and
// both limb chains of the 33-point body model.  Rest lengths are expressed
// in centered space units where the full video frame spans [-1,1].
func DefaultRig() *Rig {
	return &Rig{
		Segments: []Segment{
			{Name: "pelvis", Start: posekit.LeftHip, End: posekit.RightHip, RestLength: 0.2, Parent: -1},
			{Name: "left_torso", Start: posekit.LeftHip, End: posekit.LeftShoulder, RestLength: 0.5, Parent: 0},
			{Name: "right_torso", Start: posekit.RightHip, End: posekit.RightShoulder, RestLength: 0.5, Parent: 0},
			{Name: "shoulders", Start: posekit.LeftShoulder, End: posekit.RightShoulder, RestLength: 0.35, Parent: 1},
			{Name: "left_upper_arm", Start: posekit.LeftShoulder, End: posekit.LeftElbow, RestLength: 0.25, Parent: 3},
			{Name: "left_forearm", Start: posekit.LeftElbow, End: posekit.LeftWrist, RestLength: 0.22, Parent: 4},
			{Name: "left_hand", Start: posekit.LeftWrist, End: posekit.LeftIndex, RestLength: 0.1, Parent: 5},
			{Name: "right_upper_arm", Start: posekit.RightShoulder, End: posekit.RightElbow, RestLength: 0.25, Parent: 3},
			{Name: "right_forearm", Start: posekit.RightElbow, End: posekit.RightWrist, RestLength: 0.22, Parent: 7},
			{Name: "right_hand", Start: posekit.RightWrist, End: posekit.RightIndex, RestLength: 0.1, Parent: 8},
			{Name: "left_thigh", Start: posekit.LeftHip, End: posekit.LeftKnee, RestLength: 0.3, Parent: 0},
			{Name: "left_shin", Start: posekit.LeftKnee, End: posekit.LeftAnkle, RestLength: 0.3, Parent: 10},
			{Name: "left_foot", Start: posekit.LeftHeel, End: posekit.LeftFootIndex, RestLength: 0.12, Parent: 11},
			{Name: "right_thigh", Start: posekit.RightHip, End: posekit.RightKnee, RestLength: 0.3, Parent: 0},
			{Name: "right_shin", Start: posekit.RightKnee, End: posekit.RightAnkle, RestLength: 0.3, Parent: 13},
			{Name: "right_foot", Start: posekit.RightHeel, End: posekit.RightFootIndex, RestLength: 0.12, Parent: 14},
		},
		Joints: []Joint{
			{Name: "head", Indexes: []int{posekit.Nose}},
			{Name: "hips", Indexes: []int{posekit.LeftHip, posekit.RightHip}},
		},
	}
}

// SegmentIndex returns the position of the named segment in the rig's
// segment slice, or -1 when no segment has that name
func (r *Rig) SegmentIndex(name string) int {

	for i, seg := range r.Segments {
		if seg.Name == name {
			return i
		}
	}

	return -1
}
