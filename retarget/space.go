package retarget

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/poseworks/go-posekit"
)

// centerNormalized converts a normalized screen space position to centered
// space.  x and y are remapped from [0,1] to [-1,1], with y inverted because
// the source convention has y growing downward, and the depth sign is
// flipped so positive z points toward the viewer.
func (p Params) centerNormalized(pt posekit.Point) mgl64.Vec3 {
	return mgl64.Vec3{
		(pt.X - 0.5) * 2 * p.Scale,
		-(pt.Y - 0.5) * 2 * p.Scale,
		-pt.Z * p.DepthScale * p.Scale,
	}
}

// centerWorld converts a metric world space position to centered space.
// Left/right and depth are mirrored so the subject's movement matches a
// mirror rather than a camera view, and the hip origin is lifted by the
// vertical offset.
func (p Params) centerWorld(pt posekit.Point) mgl64.Vec3 {
	return mgl64.Vec3{
		-pt.X * p.Scale,
		(-pt.Y + p.VerticalOffset) * p.Scale,
		-pt.Z * p.Scale,
	}
}

// centerRig applies only the global scale to a position already expressed
// in centered rig space
func (p Params) centerRig(pt posekit.Point) mgl64.Vec3 {
	return mgl64.Vec3{
		pt.X * p.Scale,
		pt.Y * p.Scale,
		pt.Z * p.Scale,
	}
}

// centerFrame resolves the frame's landmark set for the configured space
// and converts every sample to centered space.  ok is false when the set is
// not a complete 33-point frame.
func (p Params) centerFrame(f posekit.Frame) (points [posekit.LandmarkCount]mgl64.Vec3,
	conf [posekit.LandmarkCount]float64, ok bool) {

	lms := f.Landmarks
	space := p.Space

	if space == SpaceWorld {
		if len(f.WorldLandmarks) == posekit.LandmarkCount {
			lms = f.WorldLandmarks
		} else {
			// frame source supplied no world set, degrade to the
			// normalized one
			space = SpaceNormalized
		}
	}

	if len(lms) != posekit.LandmarkCount {
		return points, conf, false
	}

	var seen [posekit.LandmarkCount]bool

	for _, lm := range lms {
		if lm.Index < 0 || lm.Index >= posekit.LandmarkCount || seen[lm.Index] {
			return points, conf, false
		}
		seen[lm.Index] = true

		switch space {
		case SpaceWorld:
			points[lm.Index] = p.centerWorld(lm.Position)
		case SpaceRig:
			points[lm.Index] = p.centerRig(lm.Position)
		default:
			points[lm.Index] = p.centerNormalized(lm.Position)
		}

		conf[lm.Index] = lm.Confidence
	}

	return points, conf, true
}
