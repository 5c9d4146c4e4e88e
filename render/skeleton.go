// Package render draws landmark frames onto images for debugging.  It is a
// diagnostic overlay, not the rig output path.
package render

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/poseworks/go-posekit"
)

// limbs defines the landmark pairs to draw lines between.  The numbers are
// paired, so (11,13) means draw a line from left shoulder to left elbow.
var limbs = [58]int{
	11, 13, 13, 15, 12, 14, 14, 16, // arms
	15, 19, 15, 17, 15, 21, 16, 20, 16, 18, 16, 22, // hands
	11, 12, 23, 24, 11, 23, 12, 24, // torso box
	23, 25, 25, 27, 24, 26, 26, 28, // legs
	27, 29, 29, 31, 27, 31, 28, 30, 30, 32, 28, 32, // feet
	0, 2, 0, 5, 2, 7, 5, 8, 9, 10, // face
}

// SkeletonStyle defines the parameters used for rendering a landmark
// skeleton
type SkeletonStyle struct {
	// LineThickness of the limb lines
	LineThickness int
	// CircleRadius of the joint circles
	CircleRadius int
	// MinConfidence hides limbs and joints whose landmarks score below it
	MinConfidence float64
}

// DefaultSkeletonStyle returns default skeleton style settings
func DefaultSkeletonStyle() SkeletonStyle {
	return SkeletonStyle{
		LineThickness: 2,
		CircleRadius:  3,
		MinConfidence: 0.5,
	}
}

// Skeleton renders the landmark frames onto the image.  Landmark positions
// are normalized so they are scaled by the image dimensions.  A limb is
// only drawn when both of its landmarks meet the confidence threshold.
func Skeleton(img *gocv.Mat, frames []posekit.Frame, style SkeletonStyle) {

	for _, frame := range frames {

		if len(frame.Landmarks) != posekit.LandmarkCount {
			continue
		}

		pts, conf := toPixels(img, frame)

		// draw limb lines
		for j := 0; j < len(limbs)/2; j++ {
			a := limbs[2*j]
			b := limbs[2*j+1]

			if conf[a] < style.MinConfidence || conf[b] < style.MinConfidence {
				continue
			}

			gocv.Line(img, pts[a], pts[b], limbColors[j%len(limbColors)],
				style.LineThickness)
		}

		// draw circles at the joints
		for j := 0; j < posekit.LandmarkCount; j++ {
			if conf[j] < style.MinConfidence {
				continue
			}

			gocv.Circle(img, pts[j], style.CircleRadius,
				jointColors[j%len(jointColors)], -1)
		}
	}
}

// toPixels converts a frame's normalized landmark positions to pixel
// coordinates on the image
func toPixels(img *gocv.Mat, frame posekit.Frame) (pts [posekit.LandmarkCount]image.Point,
	conf [posekit.LandmarkCount]float64) {

	w := float64(img.Cols())
	h := float64(img.Rows())

	for _, lm := range frame.Landmarks {
		if lm.Index < 0 || lm.Index >= posekit.LandmarkCount {
			continue
		}

		pts[lm.Index] = image.Pt(int(lm.Position.X*w), int(lm.Position.Y*h))
		conf[lm.Index] = lm.Confidence
	}

	return pts, conf
}
