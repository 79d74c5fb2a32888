package render

import "github.com/chewxy/math32"

// maskWeight maps the Euclidean pixel distance from a fragment to the gaze
// point onto a blend factor in [0,1]: 0 keeps the original (foveal) color,
// 1 applies the full filter. p must already be clamped.
//
// The boundary pixel of the hard circle (distance exactly RadiusPx) belongs
// to the filtered side. The feather falloff reaches ~1 three sigmas past the
// foveal radius, with sigma = FeatherPx/3.
func maskWeight(distPx float32, p Params) float32 {
	switch p.Mask {
	case MaskHardCircle:
		if distPx < p.RadiusPx {
			return 0
		}
		return 1
	case MaskGaussianFeather:
		if distPx <= p.RadiusPx {
			return 0
		}
		x := distPx - p.RadiusPx
		sigma := p.FeatherPx / 3
		t := x / sigma
		return clamp01(1 - math32.Exp(-0.5*t*t))
	default: // MaskFullFrame
		return 1
	}
}
