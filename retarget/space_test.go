package retarget

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/poseworks/go-posekit"
)

// headPosition retargets the frame and returns the head joint position,
// which copies the converted nose landmark directly and so exposes the
// coordinate conversion
func headPosition(t *testing.T, p Params, f posekit.Frame) mgl64.Vec3 {
	t.Helper()

	r := New(p, nil)

	pose, ok := r.Retarget(f)

	if !ok {
		t.Fatal("expected valid frame to retarget")
	}

	if !pose.Joints[0].Visible {
		t.Fatal("expected head joint visible")
	}

	return pose.Joints[0].Position
}

func TestNormalizedSpaceConversion(t *testing.T) {

	p := StageParams()
	p.DepthScale = 0.5
	p.Scale = 1.0

	// frame center maps to the origin
	f := rigFrame(1.0)
	setPos(f, posekit.Nose, 0.5, 0.5, 0)

	if got := headPosition(t, p, f); !vecsEqual(got, mgl64.Vec3{0, 0, 0}, epsilon) {
		t.Errorf("expected frame center at origin, got %v", got)
	}

	// top left corner maps to (-1, 1): x remapped to [-1,1], y inverted
	// because screen y grows downward
	setPos(f, posekit.Nose, 0, 0, 0)

	if got := headPosition(t, p, f); !vecsEqual(got, mgl64.Vec3{-1, 1, 0}, epsilon) {
		t.Errorf("expected top left at (-1,1,0), got %v", got)
	}

	// depth sign flips and is scaled, positive z toward the viewer
	setPos(f, posekit.Nose, 0.5, 0.5, 0.4)

	if got := headPosition(t, p, f); !vecsEqual(got, mgl64.Vec3{0, 0, -0.2}, epsilon) {
		t.Errorf("expected depth -0.2, got %v", got)
	}
}

func TestNormalizedSpaceGlobalScale(t *testing.T) {

	p := StageParams()
	p.Scale = 2.5

	f := rigFrame(1.0)
	setPos(f, posekit.Nose, 1.0, 0.5, 0)

	// scale applies uniformly after centering
	if got := headPosition(t, p, f); !vecsEqual(got, mgl64.Vec3{2.5, 0, 0}, epsilon) {
		t.Errorf("expected scaled position (2.5,0,0), got %v", got)
	}
}

func TestWorldSpaceConversion(t *testing.T) {

	p := StageParams()
	p.Space = SpaceWorld
	p.VerticalOffset = 1.0
	p.Scale = 1.0

	f := rigFrame(1.0)
	f.WorldLandmarks = rigFrame(1.0).Landmarks

	// world coordinates are mirrored left-right and in depth so the
	// subject moves like a mirror image, and the hip origin is lifted
	for i := range f.WorldLandmarks {
		f.WorldLandmarks[i].Position = posekit.Point{X: 0.3, Y: -0.2, Z: 0.1}
	}
	f.WorldLandmarks[posekit.Nose].Position = posekit.Point{X: 0.3, Y: -0.2, Z: 0.1}

	want := mgl64.Vec3{-0.3, 1.2, -0.1}

	if got := headPosition(t, p, f); !vecsEqual(got, want, epsilon) {
		t.Errorf("expected world conversion %v, got %v", want, got)
	}
}

func TestWorldSpaceFallsBackToNormalized(t *testing.T) {

	p := StageParams()
	p.Space = SpaceWorld

	// no world landmark set on the frame, the normalized one is used
	f := rigFrame(1.0)
	setPos(f, posekit.Nose, 0.5, 0.5, 0)

	if got := headPosition(t, p, f); !vecsEqual(got, mgl64.Vec3{0, 0, 0}, epsilon) {
		t.Errorf("expected normalized fallback at origin, got %v", got)
	}
}
