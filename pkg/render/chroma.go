package render

import (
	"image"

	"github.com/chewxy/math32"
)

// chromaSample recombines the color channels of src at (x,y) with a spatial
// shift along the gaze-to-pixel direction: red reads ahead of the pixel,
// blue behind, green anchors the composite unshifted. At the gaze point
// itself the direction is the zero vector and all three channels read the
// same location. Returned values are on the 0..255 scale.
//
// src is the pre-blurred frame: the blur softens each channel first and the
// chromatic filter then separates the softened channels.
func chromaSample(src *image.NRGBA, x, y int, p Params) (r, g, b float32) {
	fx := float32(x)
	fy := float32(y)
	dx := fx - p.GazeX
	dy := fy - p.GazeY
	d := math32.Hypot(dx, dy)

	var ox, oy float32
	if d > minGazeDist {
		ox = p.ChromaOffsetPx * dx / d
		oy = p.ChromaOffsetPx * dy / d
	}

	r, _, _ = sampleBilinear(src, fx+ox, fy+oy)
	_, g, _ = sampleBilinear(src, fx, fy)
	_, _, b = sampleBilinear(src, fx-ox, fy-oy)
	return
}
