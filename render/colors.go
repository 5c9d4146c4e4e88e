package render

import "image/color"

var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 50, A: 255}
	Pink   = color.RGBA{R: 255, G: 0, B: 255, A: 255}

	// posePalette are the colors used for the skeleton overlay
	posePalette = []color.RGBA{
		{R: 255, G: 128, B: 0, A: 255},
		{R: 255, G: 153, B: 51, A: 255},
		{R: 255, G: 178, B: 102, A: 255},
		{R: 230, G: 230, B: 0, A: 255},
		{R: 255, G: 153, B: 255, A: 255},
		{R: 153, G: 204, B: 255, A: 255},
		{R: 255, G: 102, B: 255, A: 255},
		{R: 255, G: 51, B: 255, A: 255},
		{R: 102, G: 178, B: 255, A: 255},
		{R: 51, G: 153, B: 255, A: 255},
		{R: 255, G: 153, B: 153, A: 255},
		{R: 255, G: 102, B: 102, A: 255},
		{R: 255, G: 51, B: 51, A: 255},
		{R: 153, G: 255, B: 153, A: 255},
		{R: 102, G: 255, B: 102, A: 255},
		{R: 51, G: 255, B: 51, A: 255},
		{R: 0, G: 255, B: 0, A: 255},
		{R: 0, G: 0, B: 255, A: 255},
		{R: 255, G: 0, B: 0, A: 255},
		{R: 255, G: 255, B: 255, A: 255},
	}

	// jointColors correspond to the 33 body landmarks and the colors used
	// to render their joint circles.  Face landmarks share one color, the
	// arms and hands another, and the hips downward a third.
	jointColors = []color.RGBA{
		posePalette[16], posePalette[16], posePalette[16], posePalette[16],
		posePalette[16], posePalette[16], posePalette[16], posePalette[16],
		posePalette[16], posePalette[16], posePalette[16],
		posePalette[9], posePalette[9], posePalette[9], posePalette[9],
		posePalette[9], posePalette[9], posePalette[9], posePalette[9],
		posePalette[9], posePalette[9], posePalette[9], posePalette[9],
		posePalette[0], posePalette[0], posePalette[0], posePalette[0],
		posePalette[0], posePalette[0], posePalette[0], posePalette[0],
		posePalette[0], posePalette[0],
	}

	// limbColors correspond to the lines drawn between landmarks, in the
	// order of the limbs table
	limbColors = []color.RGBA{
		posePalette[9], posePalette[9], posePalette[9], posePalette[9],
		posePalette[7], posePalette[7], posePalette[7], posePalette[7],
		posePalette[7], posePalette[7],
		posePalette[0], posePalette[0], posePalette[0], posePalette[0],
		posePalette[1], posePalette[1], posePalette[1], posePalette[1],
		posePalette[3], posePalette[3], posePalette[3], posePalette[3],
		posePalette[3], posePalette[3],
		posePalette[16], posePalette[16], posePalette[16], posePalette[16],
		posePalette[16],
	}
)
