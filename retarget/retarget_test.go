package retarget

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/poseworks/go-posekit"
)

const epsilon = 1e-9

// vecsEqual compares vectors within tolerance
func vecsEqual(a, b mgl64.Vec3, eps float64) bool {

	for i := 0; i < 3; i++ {
		if diff := a[i] - b[i]; diff > eps || diff < -eps {
			return false
		}
	}

	return true
}

// rigFrame returns a complete 33-point frame in rig space with every
// landmark at a distinct non-degenerate position and the given confidence
func rigFrame(conf float64) posekit.Frame {

	lms := make([]posekit.Landmark, posekit.LandmarkCount)

	for i := range lms {
		lms[i] = posekit.Landmark{
			Index: i,
			Position: posekit.Point{
				X: 0.1 * float64(i%7),
				Y: 0.1 * float64(i),
				Z: 0.05 * float64(i%3),
			},
			Confidence: conf,
		}
	}

	return posekit.Frame{Landmarks: lms}
}

// setPos overrides one landmark position on the frame
func setPos(f posekit.Frame, index int, x, y, z float64) {
	f.Landmarks[index].Position = posekit.Point{X: x, Y: y, Z: z}
}

// rigParams returns params that take positions as-is, so tests control the
// exact segment geometry
func rigParams() Params {
	p := StageParams()
	p.Space = SpaceRig
	return p
}

func TestOneDecisionPerSegment(t *testing.T) {

	r := New(rigParams(), nil)

	pose, ok := r.Retarget(rigFrame(1.0))

	if !ok {
		t.Fatal("expected valid frame to retarget")
	}

	if len(pose.Segments) != len(r.Rig().Segments) {
		t.Errorf("expected %d segment decisions, got %d",
			len(r.Rig().Segments), len(pose.Segments))
	}

	if len(pose.Joints) != len(r.Rig().Joints) {
		t.Errorf("expected %d joint decisions, got %d",
			len(r.Rig().Joints), len(pose.Joints))
	}
}

func TestConfidenceGate(t *testing.T) {

	r := New(rigParams(), nil)
	idx := r.Rig().SegmentIndex("left_upper_arm")

	// confidence 1.0 on both ends with non-degenerate length always shows
	pose, _ := r.Retarget(rigFrame(1.0))

	if !pose.Segments[idx].Visible {
		t.Error("expected fully confident segment to be visible")
	}

	// confidence 0 always hides
	f := rigFrame(1.0)
	f.Landmarks[posekit.LeftElbow].Confidence = 0

	pose, _ = r.Retarget(f)

	if pose.Segments[idx].Visible {
		t.Error("expected zero confidence endpoint to hide segment")
	}

	// threshold is exclusive below, inclusive at the threshold
	f = rigFrame(1.0)
	f.Landmarks[posekit.LeftElbow].Confidence = r.Params.ConfidenceThreshold

	pose, _ = r.Retarget(f)

	if !pose.Segments[idx].Visible {
		t.Error("expected confidence at threshold to show segment")
	}
}

func TestDegenerateSegmentHidden(t *testing.T) {

	r := New(rigParams(), nil)
	idx := r.Rig().SegmentIndex("left_upper_arm")

	f := rigFrame(1.0)
	setPos(f, posekit.LeftShoulder, 0.3, 0.3, 0.3)
	setPos(f, posekit.LeftElbow, 0.3, 0.3, 0.3)

	pose, ok := r.Retarget(f)

	if !ok {
		t.Fatal("expected valid frame to retarget")
	}

	if pose.Segments[idx].Visible {
		t.Error("expected zero length segment to be hidden")
	}
}

func TestOrientationMapsCanonicalAxisOntoDirection(t *testing.T) {

	directions := []mgl64.Vec3{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
		{1, 1, 1}, {-1, 2, 0.5},
		{0.3, -0.7, 0.2},
		// near antiparallel to the canonical up axis, from a fraction of a
		// degree off 180 out to a few degrees off
		{1e-8, -1, 1e-8},
		{0.001, -1, 0},
		{0.01, -1, 0},
		{0.04, -1, 0},
		{0.06, -1, 0},
		{0, -1, 0.02},
	}

	for _, dir := range directions {
		r := New(rigParams(), nil)
		idx := r.Rig().SegmentIndex("left_upper_arm")

		f := rigFrame(1.0)
		setPos(f, posekit.LeftShoulder, 0, 0, 0)
		setPos(f, posekit.LeftElbow, dir.X(), dir.Y(), dir.Z())

		pose, _ := r.Retarget(f)
		seg := pose.Segments[idx]

		if !seg.Visible {
			t.Fatalf("direction %v: expected segment visible", dir)
		}

		rotated := seg.Orientation.Rotate(r.Params.CanonicalAxis)
		want := dir.Normalize()

		if !vecsEqual(rotated, want, 1e-6) {
			t.Errorf("direction %v: rotated canonical axis %v, want %v",
				dir, rotated, want)
		}
	}
}

func TestScaleIsPureLengthRatio(t *testing.T) {

	r := New(rigParams(), nil)
	idx := r.Rig().SegmentIndex("left_forearm")
	rest := r.Rig().Segments[idx].RestLength

	f := rigFrame(1.0)
	setPos(f, posekit.LeftElbow, 0, 0, 0)
	setPos(f, posekit.LeftWrist, 0, 0.44, 0)

	pose, _ := r.Retarget(f)
	want := 0.44 / rest

	if math.Abs(pose.Segments[idx].Scale-want) > epsilon {
		t.Errorf("expected scale %f, got %f", want, pose.Segments[idx].Scale)
	}
}

func TestTranslationInvariance(t *testing.T) {

	base := rigFrame(1.0)

	shifted := rigFrame(1.0)

	for i := range shifted.Landmarks {
		p := shifted.Landmarks[i].Position
		shifted.Landmarks[i].Position = posekit.Point{
			X: p.X + 3.2,
			Y: p.Y - 1.7,
			Z: p.Z + 0.9,
		}
	}

	ra := New(rigParams(), nil)
	rb := New(rigParams(), nil)

	poseA, _ := ra.Retarget(base)
	poseB, _ := rb.Retarget(shifted)

	for i := range poseA.Segments {
		a := poseA.Segments[i]
		b := poseB.Segments[i]

		if a.Visible != b.Visible {
			t.Fatalf("segment %d: visibility changed under translation", i)
		}

		if !a.Visible {
			continue
		}

		if math.Abs(a.Scale-b.Scale) > epsilon {
			t.Errorf("segment %d: scale changed under translation: %f vs %f",
				i, a.Scale, b.Scale)
		}

		rotA := a.Orientation.Rotate(mgl64.Vec3{0, 1, 0})
		rotB := b.Orientation.Rotate(mgl64.Vec3{0, 1, 0})

		if !vecsEqual(rotA, rotB, 1e-9) {
			t.Errorf("segment %d: orientation changed under translation", i)
		}
	}
}

// The left upper arm pointing straight down: canonical up must rotate 180
// degrees onto the segment direction.
func TestArmStraightDownScenario(t *testing.T) {

	r := New(rigParams(), nil)
	idx := r.Rig().SegmentIndex("left_upper_arm")
	rest := r.Rig().Segments[idx].RestLength

	f := rigFrame(1.0)
	setPos(f, posekit.LeftShoulder, 0, 1, 0)
	setPos(f, posekit.LeftElbow, 0, 0.5, 0)

	pose, ok := r.Retarget(f)

	if !ok {
		t.Fatal("expected valid frame to retarget")
	}

	seg := pose.Segments[idx]

	if !seg.Visible {
		t.Fatal("expected left upper arm visible")
	}

	rotated := seg.Orientation.Rotate(mgl64.Vec3{0, 1, 0})

	if !vecsEqual(rotated, mgl64.Vec3{0, -1, 0}, 1e-6) {
		t.Errorf("expected canonical up rotated to down, got %v", rotated)
	}

	want := 0.5 / rest

	if math.Abs(seg.Scale-want) > epsilon {
		t.Errorf("expected scale %f, got %f", want, seg.Scale)
	}

	if !vecsEqual(seg.Position, mgl64.Vec3{0, 0.75, 0}, epsilon) {
		t.Errorf("expected midpoint position (0,0.75,0), got %v", seg.Position)
	}
}

func TestShortFrameProducesNoUpdate(t *testing.T) {

	r := New(rigParams(), nil)

	first, ok := r.Retarget(rigFrame(1.0))

	if !ok {
		t.Fatal("expected valid frame to retarget")
	}

	// fewer than 33 entries
	short := posekit.Frame{Landmarks: rigFrame(1.0).Landmarks[:20]}

	pose, ok := r.Retarget(short)

	if ok {
		t.Error("expected short frame to produce no update")
	}

	if pose != first {
		t.Error("expected previous pose to be retained")
	}

	// empty frame
	pose, ok = r.Retarget(posekit.Frame{})

	if ok {
		t.Error("expected empty frame to produce no update")
	}

	if pose != first {
		t.Error("expected previous pose to be retained")
	}
}

func TestNoUpdateBeforeFirstValidFrame(t *testing.T) {

	r := New(rigParams(), nil)

	pose, ok := r.Retarget(posekit.Frame{})

	if ok || pose != nil {
		t.Error("expected nil pose and no update before any valid frame")
	}
}

func TestJointMidpointAndVisibility(t *testing.T) {

	r := New(rigParams(), nil)

	f := rigFrame(1.0)
	setPos(f, posekit.LeftHip, -0.2, 1.0, 0)
	setPos(f, posekit.RightHip, 0.2, 1.0, 0)

	pose, _ := r.Retarget(f)

	// hips joint resolves to the midpoint of both hip landmarks
	if !vecsEqual(pose.Joints[1].Position, mgl64.Vec3{0, 1.0, 0}, epsilon) {
		t.Errorf("expected hips at midpoint (0,1,0), got %v", pose.Joints[1].Position)
	}

	// one low confidence anchor hides the joint
	f.Landmarks[posekit.RightHip].Confidence = 0.1

	pose, _ = r.Retarget(f)

	if pose.Joints[1].Visible {
		t.Error("expected hips joint hidden with low confidence anchor")
	}
}

func TestHiddenStatePropagation(t *testing.T) {

	// right shoulder dropout hides the shoulders segment.  The left upper
	// arm's own endpoints are fine, so by default it stays visible.
	f := rigFrame(1.0)
	f.Landmarks[posekit.RightShoulder].Confidence = 0

	r := New(rigParams(), nil)
	armIdx := r.Rig().SegmentIndex("left_upper_arm")
	shouldersIdx := r.Rig().SegmentIndex("shoulders")

	pose, _ := r.Retarget(f)

	if pose.Segments[shouldersIdx].Visible {
		t.Fatal("expected shoulders segment hidden")
	}

	if !pose.Segments[armIdx].Visible {
		t.Error("expected left upper arm visible without propagation")
	}

	// with propagation enabled the hidden parent cascades down
	p := rigParams()
	p.PropagateHidden = true

	r = New(p, nil)
	pose, _ = r.Retarget(f)

	if pose.Segments[armIdx].Visible {
		t.Error("expected left upper arm hidden with propagation")
	}
}
