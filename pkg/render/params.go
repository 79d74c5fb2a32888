package render

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// MaxBlurRadius is the hard cap on the per-channel blur kernel half-width.
// Configured radii above this are clamped, which truncates the Gaussian for
// very large sigmas; that is an accepted approximation, not an error.
const MaxBlurRadius = 10

const (
	// minSigma floors blur sigmas before any division. The smallest sigma the
	// reference settings ship is 0.001, so the floor sits well below it.
	minSigma = 1e-4
	// minFeather floors the feather width before deriving the falloff sigma.
	minFeather = 1e-4
	// minNorm floors the kernel normalizer on degenerate radius/sigma combos.
	minNorm = 1e-6
	// minGazeDist is the distance below which a pixel counts as the gaze
	// point itself and the chromatic offset direction collapses to zero.
	minGazeDist = 1e-3
)

// ErrInvalidConfig reports a caller contract violation (non-finite gaze or a
// non-positive resolution). All other out-of-range parameters are clamped
// into the nearest valid value instead of failing.
var ErrInvalidConfig = errors.New("invalid filter configuration")

// MaskMode selects how the peripheral mask weight is derived from the
// pixel-to-gaze distance.
type MaskMode int

const (
	// MaskFullFrame applies the filter everywhere, ignoring gaze.
	MaskFullFrame MaskMode = iota
	// MaskHardCircle leaves a sharp-edged disc around the gaze unfiltered.
	MaskHardCircle
	// MaskGaussianFeather leaves a disc unfiltered and ramps the filter in
	// smoothly over roughly FeatherPx pixels beyond it.
	MaskGaussianFeather
)

func (m MaskMode) String() string {
	switch m {
	case MaskFullFrame:
		return "fullframe"
	case MaskHardCircle:
		return "circle"
	case MaskGaussianFeather:
		return "feather"
	}
	return fmt.Sprintf("MaskMode(%d)", int(m))
}

// ParseMaskMode maps the textual settings value to a MaskMode.
func ParseMaskMode(s string) (MaskMode, error) {
	switch s {
	case "fullframe", "full", "":
		return MaskFullFrame, nil
	case "circle", "hardcircle":
		return MaskHardCircle, nil
	case "feather", "gaussian", "gaussianfeather":
		return MaskGaussianFeather, nil
	}
	return MaskFullFrame, fmt.Errorf("unknown mask mode %q", s)
}

// ChannelBlur holds the 1D Gaussian settings for a single color channel.
// Radius 0 disables blurring for that channel entirely.
type ChannelBlur struct {
	Radius int
	Sigma  float32
}

// Params is the complete per-frame filter configuration. It is a plain value:
// the pipeline snapshots it at the start of a frame and never observes a
// mid-frame change. Channel order in Blur is R, G, B.
type Params struct {
	Width, Height int

	// GazeX, GazeY are in frame pixel coordinates. Off-screen values are
	// valid and treated as ordinary distances.
	GazeX, GazeY float32

	Mask      MaskMode
	RadiusPx  float32 // unfiltered foveal radius for circle/feather masks
	FeatherPx float32 // transition width for the feather mask

	// FilterStrength scales the mask weight; clamped into [0,1] at use.
	FilterStrength float32

	Blur [3]ChannelBlur

	// ChromaOffsetPx is the magnitude of the per-channel spatial offset of
	// the chromatic filter, in pixels.
	ChromaOffsetPx float32
}

// Validate reports ErrInvalidConfig for the two fatal caller mistakes:
// a non-positive resolution and a non-finite gaze position. Everything else
// degrades gracefully via clamping in clamped().
func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: resolution %dx%d", ErrInvalidConfig, p.Width, p.Height)
	}
	if math32.IsNaN(p.GazeX) || math32.IsInf(p.GazeX, 0) ||
		math32.IsNaN(p.GazeY) || math32.IsInf(p.GazeY, 0) {
		return fmt.Errorf("%w: non-finite gaze position (%v, %v)", ErrInvalidConfig, p.GazeX, p.GazeY)
	}
	return nil
}

// clamped returns a copy with every numeric field pulled into its valid
// range: radii into [0,MaxBlurRadius], sigma and feather floored to a
// positive epsilon, strength into [0,1], negative pixel magnitudes to 0.
func (p Params) clamped() Params {
	out := p
	for c := range out.Blur {
		if out.Blur[c].Radius < 0 {
			out.Blur[c].Radius = 0
		}
		if out.Blur[c].Radius > MaxBlurRadius {
			out.Blur[c].Radius = MaxBlurRadius
		}
		if !(out.Blur[c].Sigma > minSigma) {
			out.Blur[c].Sigma = minSigma
		}
	}
	if out.RadiusPx < 0 || math32.IsNaN(out.RadiusPx) {
		out.RadiusPx = 0
	}
	if !(out.FeatherPx > minFeather) {
		out.FeatherPx = minFeather
	}
	out.FilterStrength = clamp01(out.FilterStrength)
	if out.ChromaOffsetPx < 0 || math32.IsNaN(out.ChromaOffsetPx) {
		out.ChromaOffsetPx = 0
	}
	return out
}

func clamp01(v float32) float32 {
	if math32.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
