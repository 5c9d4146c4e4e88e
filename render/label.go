package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/poseworks/go-posekit"
)

// LandmarkLabels draws the landmark name next to each joint that meets the
// confidence threshold, using the built in Hershey fonts
func LandmarkLabels(img *gocv.Mat, frame posekit.Frame, fnt Font,
	minConfidence float64) {

	if len(frame.Landmarks) != posekit.LandmarkCount {
		return
	}

	pts, conf := toPixels(img, frame)

	for j := 0; j < posekit.LandmarkCount; j++ {
		if conf[j] < minConfidence {
			continue
		}

		text := posekit.LandmarkName(j)
		textSize := gocv.GetTextSize(text, fnt.Face, fnt.Scale, fnt.Thickness)

		var x int

		switch fnt.Alignment {
		case Center:
			x = pts[j].X - textSize.X/2

		case Right:
			x = pts[j].X - textSize.X - fnt.RightPad

		case Left:
			fallthrough
		default:
			x = pts[j].X + fnt.LeftPad
		}

		pos := image.Pt(x, pts[j].Y-fnt.BottomPad)

		gocv.PutTextWithParams(img, text, pos, fnt.Face, fnt.Scale,
			fnt.Color, fnt.Thickness, fnt.LineType, false)
	}
}

// LabelRenderer draws text labels using a TTF font face, for label sets
// that need glyphs outside the Hershey fonts
type LabelRenderer struct {
	// fontFace is the loaded TTF font face
	fontFace font.Face
	// Color of the label text
	Color color.RGBA
}

// NewLabelRenderer loads the TTF font at the given path and returns a
// renderer using it at the given point size
func NewLabelRenderer(fontPath string, size float64) (*LabelRenderer, error) {

	fontBytes, err := os.ReadFile(fontPath)

	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	f, err := opentype.Parse(fontBytes)

	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	if err != nil {
		return nil, fmt.Errorf("error initializing font face: %w", err)
	}

	return &LabelRenderer{
		fontFace: face,
		Color:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}, nil
}

// PutText writes the text onto the image at the given pixel position
func (l *LabelRenderer) PutText(img *gocv.Mat, text string, x, y int) error {

	// render the text into a transparent overlay image
	rgba := image.NewRGBA(image.Rect(0, 0, img.Cols(), img.Rows()))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 0}),
		image.Point{}, draw.Src)

	dr := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(l.Color),
		Face: l.fontFace,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(x * 64),
			Y: fixed.Int26_6(y * 64),
		},
	}
	dr.DrawString(text)

	// convert image.RGBA to gocv.Mat and blend over the source
	imgRGBA, err := gocv.NewMatFromBytes(rgba.Bounds().Dy(), rgba.Bounds().Dx(),
		gocv.MatTypeCV8UC4, rgba.Pix)

	if imgRGBA.Empty() || err != nil {
		return fmt.Errorf("error creating Mat from RGBA")
	}

	defer imgRGBA.Close()

	gocv.CvtColor(imgRGBA, &imgRGBA, gocv.ColorRGBAToBGR)
	gocv.AddWeighted(*img, 1.0, imgRGBA, 1.0, 0, img)

	return nil
}
